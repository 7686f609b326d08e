package graphql_api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"pinstack-feed-service/internal/custom_errors"
	auth_port "pinstack-feed-service/internal/domain/ports/input/auth"
	post_port "pinstack-feed-service/internal/domain/ports/input/post"
	ports "pinstack-feed-service/internal/domain/ports/output"
)

//go:embed schema.graphql
var schemaSource string

const (
	maxRequestSize = 1 << 20
	maxQueryDepth  = 10
)

type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Path    []any  `json:"path,omitempty"`
}

type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []Error         `json:"errors,omitempty"`
}

type Handler struct {
	schema *graphql.Schema
	log    ports.Logger
}

// panicLogger routes resolver panics recovered by graphql-go into the service log.
type panicLogger struct {
	log ports.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Error("Recovered panic in graphql resolver", slog.String("panic", fmt.Sprint(value)))
}

func NewHandler(auth auth_port.Service, posts post_port.Service, log ports.Logger) (*Handler, error) {
	schema, err := graphql.ParseSchema(schemaSource, &rootResolver{auth: auth, posts: posts, log: log},
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(panicLogger{log: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load graphql schema: %w", err)
	}
	return &Handler{schema: schema, log: log}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				h.reject(w, "variables must be a JSON object")
				return
			}
		}
		if isMutation(req.Query, req.OperationName) {
			w.Header().Set("Allow", http.MethodPost)
			h.write(w, http.StatusMethodNotAllowed, &Response{Errors: []Error{{
				Message: "mutations must be sent with POST",
				Status:  http.StatusMethodNotAllowed,
			}}})
			return
		}
	case http.MethodPost:
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req); err != nil {
			h.reject(w, "request body must be a JSON object with a query")
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		h.write(w, http.StatusMethodNotAllowed, &Response{Errors: []Error{{Message: "method not allowed", Status: http.StatusMethodNotAllowed}}})
		return
	}
	if req.Query == "" {
		h.reject(w, "query is required")
		return
	}

	result := h.schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	resp := &Response{Data: result.Data, Errors: convertErrors(result.Errors)}
	status := http.StatusOK
	if len(resp.Data) == 0 && len(resp.Errors) > 0 {
		h.log.Debug("Rejected graphql request", slog.String("error", resp.Errors[0].Message))
		status = http.StatusBadRequest
	}
	h.write(w, status, resp)
}

// isMutation reports whether the operation selected by name is a mutation.
// Unparseable documents are left to the executor to report.
func isMutation(query, operationName string) bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return false
	}
	op := doc.Operations.ForName(operationName)
	return op != nil && op.Operation == ast.Mutation
}

func convertErrors(list []*gqlerrors.QueryError) []Error {
	if len(list) == 0 {
		return nil
	}
	out := make([]Error, 0, len(list))
	for _, qe := range list {
		if qe.ResolverError == nil {
			// pathless errors come from parsing and validation, the rest are execution faults such as panics
			if len(qe.Path) > 0 {
				out = append(out, Error{Message: custom_errors.ErrInternal.Message, Status: http.StatusInternalServerError, Path: qe.Path})
				continue
			}
			out = append(out, Error{Message: qe.Message, Status: http.StatusBadRequest})
			continue
		}
		kind := custom_errors.KindOf(qe.ResolverError)
		e := Error{Message: qe.ResolverError.Error(), Status: kind.HTTPStatus(), Path: qe.Path}
		switch kind {
		case custom_errors.KindValidation:
			if fields := custom_errors.FieldsOf(qe.ResolverError); len(fields) > 0 {
				e.Data = fields
			}
		case custom_errors.KindInternal:
			e.Message = custom_errors.ErrInternal.Message
		}
		out = append(out, e)
	}
	return out
}

func (h *Handler) reject(w http.ResponseWriter, message string) {
	h.write(w, http.StatusBadRequest, &Response{Errors: []Error{{Message: message, Status: http.StatusBadRequest}}})
}

func (h *Handler) write(w http.ResponseWriter, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Warn("Failed to write graphql response", slog.String("error", err.Error()))
	}
}
