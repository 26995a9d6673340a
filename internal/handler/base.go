package handler

import (
	"io"
	"reflect"
	"time"

	"github.com/deppfellow/employee-registry/internal/middleware"
	"github.com/deppfellow/employee-registry/internal/server"
	"github.com/deppfellow/employee-registry/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds the dependencies shared by every concrete handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a bound and validated request
// and returns a response or an error. Req is a pointer to a struct.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// StreamFunc writes a response body directly to the client.
type StreamFunc func(w io.Writer) error

// ResponseHandler writes a successful result and describes it for logs and
// tracing.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by EnhanceTracing.
}

// StreamResponseHandler streams a download. The handler result must be a
// StreamFunc; headers are committed before the first byte is written, so a
// failure while streaming truncates the body instead of changing the status.
type StreamResponseHandler struct {
	status      int
	filename    string
	contentType string
}

func (h StreamResponseHandler) Handle(c echo.Context, result interface{}) error {
	write := result.(StreamFunc)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, h.contentType)
	res.Header().Set(echo.HeaderContentDisposition, "attachment; filename="+h.filename)
	res.WriteHeader(h.status)

	return write(res)
}

func (h StreamResponseHandler) GetOperation() string {
	return "handler_stream"
}

func (h StreamResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn != nil {
		txn.AddAttribute("file.name", h.filename)
		txn.AddAttribute("file.content_type", h.contentType)
	}
}

// phaseTrace annotates the New Relic transaction of a request, if any, with
// the outcome and duration of each pipeline phase.
type phaseTrace struct {
	txn *newrelic.Transaction
}

func (t phaseTrace) record(phase string, err error, elapsed time.Duration) {
	if t.txn == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failed"
		t.txn.NoticeError(nrpkgerrors.Wrap(err))
	}

	t.txn.AddAttribute(phase+".status", status)
	t.txn.AddAttribute(phase+".duration_ms", elapsed.Milliseconds())
}

// handleRequest runs every endpoint through the same pipeline: bind and
// validate into req, call handler, write the result with responseHandler.
// Each phase is logged with its duration.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	trace := phaseTrace{txn: newrelic.FromContext(c.Request().Context())}
	if trace.txn != nil {
		trace.txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(trace.txn, nil)
	}

	logCtx := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", route)
	if stream, ok := responseHandler.(StreamResponseHandler); ok {
		logCtx = logCtx.
			Str("filename", stream.filename).
			Str("content_type", stream.contentType)
	}
	logger := logCtx.Logger()

	logger.Info().Msg("handling request")

	bindStart := time.Now()
	err := validation.BindAndValidate(c, req)
	bindDuration := time.Since(bindStart)
	trace.record("validation", err, bindDuration)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("validation_duration", bindDuration).
			Msg("request validation failed")
		return err
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)
	trace.record("handler", err, handlerDuration)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")
		return err
	}

	if trace.txn != nil {
		trace.txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		responseHandler.AddAttributes(trace.txn, result)
	}

	logger.Info().
		Dur("validation_duration", bindDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// newRequest returns a zero value of the type proto points to, so requests
// never share bound state.
func newRequest[Req validation.Validatable](proto Req) Req {
	return reflect.New(reflect.TypeOf(proto).Elem()).Interface().(Req)
}

// Handle wraps a typed handler returning a JSON body.
//
//	g.POST("", handler.Handle(h.Handler, h.CreateEmployee, http.StatusOK, &employee.CreateEmployeeRequest{}))
//
// req only supplies the request type; every call binds into a fresh value.
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleStream wraps a handler returning a StreamFunc that writes a file
// download.
func HandleStream[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, StreamFunc],
	status int,
	req Req,
	filename string,
	contentType string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, StreamResponseHandler{
			status:      status,
			filename:    filename,
			contentType: contentType,
		})
	}
}
