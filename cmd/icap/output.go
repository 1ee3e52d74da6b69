package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mowind/icap-go/internal/codec"
	apperrors "github.com/mowind/icap-go/internal/errors"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// record 是 json 输出中每个输入对应的一行
type record struct {
	Input  string      `json:"input"`
	Result interface{} `json:"result,omitempty"`
	Error  *recordErr  `json:"error,omitempty"`
}

type recordErr struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// printer 按输出格式逐条打印结果，并统计失败的输入
type printer struct {
	format string
	out    io.Writer
	errOut io.Writer
	enc    *json.Encoder
	total  int
	failed int
}

func addOutputFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", outputText, "Output format (text, json)")
}

func newPrinter(cmd *cobra.Command, format string) (*printer, error) {
	if format != outputText && format != outputJSON {
		return nil, fmt.Errorf("invalid output format %q, must be one of: %s, %s", format, outputText, outputJSON)
	}
	return &printer{
		format: format,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		enc:    json.NewEncoder(cmd.OutOrStdout()),
	}, nil
}

// result 打印一条成功结果
func (p *printer) result(input string, res interface{}, text string) error {
	p.total++
	if p.format == outputJSON {
		return p.enc.Encode(record{Input: input, Result: res})
	}
	_, err := fmt.Fprintln(p.out, text)
	return err
}

// rejected 打印一条未通过但不是错误的结果，例如 validate 的无效输入
func (p *printer) rejected(input string, res interface{}, text string) error {
	p.failed++
	return p.result(input, res, text)
}

// fail 打印一条失败结果，文本格式写到 stderr
func (p *printer) fail(input string, err error) error {
	p.total++
	p.failed++

	appErr := apperrors.ConvertError(err)
	if p.format == outputJSON {
		return p.enc.Encode(record{Input: input, Error: &recordErr{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		}})
	}
	_, werr := fmt.Fprintf(p.errOut, "%s: %v\n", input, err)
	return werr
}

// done 有任何输入失败时返回错误，使进程以非零状态退出
func (p *printer) done() error {
	if p.failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", p.failed, p.total)
	}
	return nil
}

// newService CLI 不记录日志也不上报指标
func newService() *codec.Service {
	return codec.NewService(nil, nil)
}
