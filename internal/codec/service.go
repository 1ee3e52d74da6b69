// Package codec wraps the ICAP primitives with the logging, metrics and error
// mapping shared by the JSON-RPC, REST and CLI front ends.
package codec

import (
	"context"
	"time"

	apperrors "github.com/mowind/icap-go/internal/errors"
	"github.com/mowind/icap-go/internal/icap"
	"github.com/mowind/icap-go/internal/metrics"
)

// Operation names, used as JSON-RPC method names and metric labels.
const (
	OpEncode    = "icap_encode"
	OpCanEncode = "icap_canEncode"
	OpDecode    = "icap_decode"
	OpValidate  = "icap_validate"
	OpParse     = "icap_parse"
)

// Operations lists every operation the service exposes.
var Operations = []string{OpEncode, OpCanEncode, OpDecode, OpValidate, OpParse}

// EncodeResult is the outcome of encoding an address.
type EncodeResult struct {
	ICAP        string `json:"icap"`
	PrintFormat string `json:"printFormat"`
	Address     string `json:"address"`
}

// DecodeResult is the outcome of decoding a direct identifier.
type DecodeResult struct {
	Address string `json:"address"`
	ICAP    string `json:"icap"`
}

// ValidateResult reports whether an identifier is valid. Reason holds the
// error type when it is not.
type ValidateResult struct {
	Valid  bool   `json:"valid"`
	Form   string `json:"form,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ParseResult describes a parsed identifier. Indirect fields are empty for
// the direct form and Address is empty for the indirect form.
type ParseResult struct {
	ICAP        string `json:"icap"`
	Form        string `json:"form"`
	CheckDigits string `json:"checkDigits"`
	PrintFormat string `json:"printFormat"`
	Asset       string `json:"asset,omitempty"`
	Institution string `json:"institution,omitempty"`
	Client      string `json:"client,omitempty"`
	Address     string `json:"address,omitempty"`
}

// Service runs codec operations. All methods are safe for concurrent use.
type Service struct {
	logger  apperrors.Logger
	metrics *metrics.Recorder
}

// NewService creates a codec service. rec may be nil.
func NewService(logger apperrors.Logger, rec *metrics.Recorder) *Service {
	return &Service{
		logger:  logger,
		metrics: rec,
	}
}

// Encode converts a hex address into its direct identifier.
func (s *Service) Encode(ctx context.Context, address string) (res *EncodeResult, err error) {
	defer s.observe(ctx, OpEncode, address, time.Now(), &err)

	addr, err := icap.ParseAddress(address)
	if err != nil {
		return nil, apperrors.ConvertError(err)
	}
	id, err := icap.Encode(addr)
	if err != nil {
		return nil, apperrors.ConvertError(err)
	}

	return &EncodeResult{
		ICAP:        id.String(),
		PrintFormat: id.PrintFormat(),
		Address:     addr.String(),
	}, nil
}

// CanEncode reports whether the address has a direct identifier.
func (s *Service) CanEncode(ctx context.Context, address string) (ok bool, err error) {
	defer s.observe(ctx, OpCanEncode, address, time.Now(), &err)

	addr, err := icap.ParseAddress(address)
	if err != nil {
		return false, apperrors.ConvertError(err)
	}
	return icap.CanEncode(addr), nil
}

// Decode recovers the address carried by a direct identifier.
func (s *Service) Decode(ctx context.Context, identifier string) (res *DecodeResult, err error) {
	defer s.observe(ctx, OpDecode, identifier, time.Now(), &err)

	id, err := icap.Parse(identifier)
	if err != nil {
		return nil, apperrors.ConvertError(err)
	}
	addr, err := icap.Decode(id)
	if err != nil {
		return nil, apperrors.ConvertError(err)
	}

	return &DecodeResult{
		Address: addr.String(),
		ICAP:    id.String(),
	}, nil
}

// Validate never fails: an invalid identifier yields Valid == false with a reason.
func (s *Service) Validate(ctx context.Context, identifier string, skipChecksum bool) *ValidateResult {
	var opts []icap.Option
	if skipChecksum {
		opts = append(opts, icap.WithoutChecksum())
	}

	var err error
	defer s.observe(ctx, OpValidate, identifier, time.Now(), &err)

	id, err := icap.Parse(identifier, opts...)
	if err != nil {
		return &ValidateResult{
			Valid:  false,
			Reason: string(apperrors.ConvertError(err).Type),
		}
	}
	return &ValidateResult{Valid: true, Form: id.Form().String()}
}

// Parse validates an identifier and describes its fields.
func (s *Service) Parse(ctx context.Context, identifier string) (res *ParseResult, err error) {
	defer s.observe(ctx, OpParse, identifier, time.Now(), &err)

	id, err := icap.Parse(identifier)
	if err != nil {
		return nil, apperrors.ConvertError(err)
	}

	res = &ParseResult{
		ICAP:        id.String(),
		Form:        id.Form().String(),
		CheckDigits: id.CheckDigits(),
		PrintFormat: id.PrintFormat(),
	}

	if fields, ok := id.Indirect(); ok {
		res.Asset = fields.Asset
		res.Institution = fields.Institution
		res.Client = fields.Client
		return res, nil
	}

	addr, err := icap.Decode(id)
	if err != nil {
		return nil, apperrors.ConvertError(err)
	}
	res.Address = addr.String()
	return res, nil
}

// observe logs and counts one operation. err points at the named result so
// the deferred call sees the final value.
func (s *Service) observe(ctx context.Context, operation, input string, start time.Time, err *error) {
	s.metrics.ObserveOperation(operation, start, *err)
	if s.logger != nil {
		s.logger.WithContext(ctx).LogCodecOperation(operation, input, start, *err)
	}
}
