package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/mowind/icap-go/internal/errors"
	"github.com/mowind/icap-go/internal/jsonrpc"
	"github.com/mowind/icap-go/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Handler defines a JSON-RPC method handler interface.
//
// Implementations of this interface can be registered with the Router
// to handle specific JSON-RPC methods.
type Handler interface {
	// Handle processes a JSON-RPC request.
	//
	// A returned *jsonrpc.Error is sent to the client as is; any other error
	// becomes an internal error response.
	Handle(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error)

	// Method returns the JSON-RPC method name this handler supports.
	Method() string
}

const (
	// DefaultMaxRequestSize is the default request body limit (10MB).
	DefaultMaxRequestSize int64 = 10 * 1024 * 1024

	// DefaultMaxBatchSize defines the default maximum number of requests allowed in a batch.
	DefaultMaxBatchSize = 100

	// DefaultBatchWorkerCount defines the default number of workers for batch request processing.
	DefaultBatchWorkerCount = 16
)

// Options tunes request limits and batch concurrency.
// Zero values fall back to the defaults above.
type Options struct {
	MaxRequestSize int64
	MaxBatchSize   int
	BatchWorkers   int
	Metrics        *metrics.Recorder
}

func (o Options) withDefaults() Options {
	if o.MaxRequestSize <= 0 {
		o.MaxRequestSize = DefaultMaxRequestSize
	}
	if o.MaxBatchSize <= 0 {
		o.MaxBatchSize = DefaultMaxBatchSize
	}
	if o.BatchWorkers <= 0 {
		o.BatchWorkers = DefaultBatchWorkerCount
	}
	return o
}

// Router routes JSON-RPC requests to appropriate handlers.
//
// This router supports:
//   - Method-based handler registration
//   - Thread-safe operations
//   - Request size limiting and bounded batch concurrency
type Router struct {
	handlers map[string]Handler
	mu       sync.RWMutex
	logger   *logrus.Logger
	opts     Options
}

// NewRouterWithOptions creates a new JSON-RPC router with the given limits.
func NewRouterWithOptions(logger *logrus.Logger, opts Options) *Router {
	return &Router{
		handlers: make(map[string]Handler),
		logger:   logger,
		opts:     opts.withDefaults(),
	}
}

// Register registers a JSON-RPC method handler.
//
// The handler's Method() return value is used as the registration key.
func (r *Router) Register(handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	method := handler.Method()
	if method == "" {
		return fmt.Errorf("handler method name cannot be empty")
	}

	if _, exists := r.handlers[method]; exists {
		return fmt.Errorf("handler for method %s already registered", method)
	}

	r.handlers[method] = handler
	r.logger.WithField("method", method).Debug("Registered JSON-RPC handler")
	return nil
}

// routeRequest performs handler lookup, execution, and error handling for a single request.
func (r *Router) routeRequest(ctx context.Context, request *jsonrpc.Request, logger *logrus.Entry) *jsonrpc.Response {
	if request == nil {
		return jsonrpc.NewErrorResponse(nil, jsonrpc.InvalidRequestError)
	}

	if err := request.Err(); err != nil {
		logger.WithError(err).Warn("Invalid JSON-RPC request")
		return jsonrpc.NewErrorResponse(request.ID, jsonrpc.InvalidRequestError)
	}

	logger.Debug("Routing request")

	handler, found := r.getHandler(request.Method)
	if !found {
		logger.Warn("Method not found")
		return jsonrpc.NewErrorResponse(request.ID, jsonrpc.MethodNotFoundError)
	}

	response, err := handler.Handle(apperrors.NewContextWithOperation(ctx, request.Method), request)
	if err != nil {
		if jsonErr, ok := err.(*jsonrpc.Error); ok {
			logger.WithField("code", jsonErr.Code).Debug("Handler returned JSON-RPC error")
			return jsonrpc.NewErrorResponse(request.ID, jsonErr)
		}

		logger.WithError(err).Error("Handler execution failed")
		return jsonrpc.NewErrorResponse(request.ID, jsonrpc.NewServerError(
			jsonrpc.CodeInternalError,
			"Internal server error",
			err.Error(),
		))
	}

	if response == nil {
		logger.Error("Handler returned nil response")
		return jsonrpc.NewErrorResponse(request.ID, jsonrpc.InternalError)
	}

	response.ID = request.ID
	response.JSONRPC = jsonrpc.JSONRPCVersion
	return response
}

// RouteWithContext routes a single request using the provided logger entry.
func (r *Router) RouteWithContext(ctx context.Context, request *jsonrpc.Request, logger *logrus.Entry) *jsonrpc.Response {
	return r.routeRequest(ctx, request, logger)
}

// Route routes a single JSON-RPC request to the appropriate handler.
func (r *Router) Route(ctx context.Context, request *jsonrpc.Request) *jsonrpc.Response {
	if request == nil {
		r.logger.Warn("Received nil JSON-RPC request")
		return jsonrpc.NewErrorResponse(nil, jsonrpc.InvalidRequestError)
	}
	logger := r.logger.WithFields(logrus.Fields{
		"method": request.Method,
		"id":     request.ID,
	})
	return r.routeRequest(ctx, request, logger)
}

// RouteBatch routes a batch of JSON-RPC requests.
//
// Each request in the batch is routed independently on a bounded worker
// pool. Responses are returned in request order.
func (r *Router) RouteBatch(ctx context.Context, requests []jsonrpc.Request) []*jsonrpc.Response {
	if len(requests) == 0 {
		return []*jsonrpc.Response{
			jsonrpc.NewErrorResponse(nil, jsonrpc.InvalidRequestError),
		}
	}

	if len(requests) > r.opts.MaxBatchSize {
		r.logger.WithField("count", len(requests)).Warn("Batch size exceeds limit")
		return []*jsonrpc.Response{r.batchTooLargeResponse()}
	}

	start := time.Now()
	r.opts.Metrics.ObserveBatch(len(requests))

	responses := make([]*jsonrpc.Response, len(requests))

	taskCount := len(requests)
	taskCh := make(chan int, taskCount)
	for i := 0; i < taskCount; i++ {
		taskCh <- i
	}
	close(taskCh)

	workerCount := r.opts.BatchWorkers
	if taskCount < workerCount {
		workerCount = taskCount
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for idx := range taskCh {
				if ctx.Err() != nil {
					responses[idx] = jsonrpc.NewErrorResponse(requests[idx].ID, jsonrpc.NewServerError(
						jsonrpc.CodeInternalError, "Internal error", "request cancelled"))
					continue
				}
				responses[idx] = r.routeSafely(ctx, &requests[idx], workerID)
			}
		}(i)
	}

	wg.Wait()

	r.logger.WithFields(logrus.Fields{
		"count":       taskCount,
		"workers":     workerCount,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Batch routing completed")
	return responses
}

// routeSafely routes one batch entry, converting a handler panic into an internal error.
func (r *Router) routeSafely(ctx context.Context, request *jsonrpc.Request, workerID int) (resp *jsonrpc.Response) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.WithFields(logrus.Fields{
				"worker_id": workerID,
				"method":    request.Method,
				"panic":     p,
			}).Error("Worker panic recovered")
			resp = jsonrpc.NewErrorResponse(request.ID,
				jsonrpc.NewServerError(jsonrpc.CodeInternalError, "Internal error", "Processing failed"))
		}
	}()
	return r.Route(ctx, request)
}

func (r *Router) batchTooLargeResponse() *jsonrpc.Response {
	return jsonrpc.NewErrorResponse(nil, jsonrpc.NewInvalidParamsError(
		"Batch size exceeds maximum limit of %d", r.opts.MaxBatchSize))
}

// getHandler retrieves a registered handler for the given method name.
func (r *Router) getHandler(method string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, found := r.handlers[method]
	return handler, found
}

// GetRegisteredMethods returns a list of all registered method names.
func (r *Router) GetRegisteredMethods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]string, 0, len(r.handlers))
	for method := range r.handlers {
		methods = append(methods, method)
	}

	return methods
}

// HasHandler checks if a handler is registered for the given method.
func (r *Router) HasHandler(method string) bool {
	_, found := r.getHandler(method)
	return found
}

// HandleHTTPRequest reads a JSON-RPC body from HTTP, routes it and writes the response.
//
// Bodies over the configured size limit are rejected with 413. Batch bodies
// are always answered with an array, even for a single entry.
func (r *Router) HandleHTTPRequest(w http.ResponseWriter, req *http.Request) {
	r.HandleHTTPRequestWithContext(w, req, logrus.NewEntry(r.logger))
}

// HandleHTTPRequestWithContext is HandleHTTPRequest with a caller-provided logger entry.
func (r *Router) HandleHTTPRequestWithContext(w http.ResponseWriter, req *http.Request, logger *logrus.Entry) {
	maxBody := r.opts.MaxRequestSize
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBody))
	if err != nil {
		logger.WithError(err).WithField("max_size_bytes", maxBody).Warn("Request body too large")
		r.writeResponse(w, http.StatusRequestEntityTooLarge, logger, jsonrpc.NewErrorResponse(nil,
			jsonrpc.NewInvalidParamsError("Request entity too large")))
		return
	}

	requests, err := jsonrpc.ParseRequest(body)
	if err != nil {
		logger.WithError(err).Warn("Failed to parse JSON-RPC request")
		rpcErr := jsonrpc.ParseError
		if errors.Is(err, jsonrpc.ErrInvalidRequest) {
			rpcErr = jsonrpc.InvalidRequestError
		}
		r.writeResponse(w, http.StatusOK, logger, jsonrpc.NewErrorResponse(nil, rpcErr))
		return
	}

	if !jsonrpc.IsBatch(body) {
		r.writeResponse(w, http.StatusOK, logger, r.RouteWithContext(req.Context(), &requests[0],
			logger.WithFields(logrus.Fields{"method": requests[0].Method, "id": requests[0].ID})))
		return
	}

	if len(requests) > r.opts.MaxBatchSize {
		logger.WithField("count", len(requests)).Warn("Batch size exceeds limit")
		r.writeResponse(w, http.StatusOK, logger, r.batchTooLargeResponse())
		return
	}

	data, err := jsonrpc.MarshalResponses(r.RouteBatch(req.Context(), requests), true)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal JSON-RPC responses")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, data, logger)
}

func (r *Router) writeResponse(w http.ResponseWriter, status int, logger *logrus.Entry, resp *jsonrpc.Response) {
	data, err := jsonrpc.MarshalResponse(resp)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal JSON-RPC response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, data, logger)
}

func writeJSON(w http.ResponseWriter, status int, data []byte, logger *logrus.Entry) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.WithError(err).Error("Failed to write response")
	}
}
