package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/99designs/gqlgen/graphql/errcode"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/sellershut/categories/internal/errs"
	"github.com/sellershut/categories/internal/graphqlapi"
)

// gqlRequest is the standard GraphQL-over-HTTP POST body. operationName
// selects one of schema.graphqls's Query/Mutation fields; variables are
// decoded straight into that field's argument struct below.
//
// A real gqlgen executable schema parses `query` itself and resolves
// field selections against it; that parser is the piece this module does
// not commit (see gqlgen.yml, DESIGN.md). This handler instead dispatches
// on operationName directly, which is sufficient for every operation
// schema.graphqls declares since none of them nest sub-selections that
// change server-side behavior.
type gqlRequest struct {
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

type gqlResponse struct {
	Data   any               `json:"data,omitempty"`
	Errors []*gqlerror.Error `json:"errors,omitempty"`
}

func newRequestHandler(resolver *graphqlapi.Resolver) http.Handler {
	return &requestHandler{resolver: resolver}
}

type requestHandler struct {
	resolver *graphqlapi.Resolver
}

func (h *requestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGQLError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	var (
		data any
		err  error
	)

	switch req.OperationName {
	case "categories":
		var v struct {
			First  *int32  `json:"first"`
			After  *string `json:"after"`
			Last   *int32  `json:"last"`
			Before *string `json:"before"`
		}
		if err = json.Unmarshal(req.Variables, &v); err == nil {
			data, err = h.resolver.Categories(ctx, v.First, v.After, v.Last, v.Before)
		}
	case "subCategories":
		var v struct {
			ParentID *string `json:"parentId"`
			First    *int32  `json:"first"`
			After    *string `json:"after"`
			Last     *int32  `json:"last"`
			Before   *string `json:"before"`
		}
		if err = json.Unmarshal(req.Variables, &v); err == nil {
			data, err = h.resolver.SubCategories(ctx, v.ParentID, v.First, v.After, v.Last, v.Before)
		}
	case "categoryById":
		var v struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(req.Variables, &v); err == nil {
			data, err = h.resolver.CategoryById(ctx, v.ID)
		}
	case "create":
		var v struct {
			Input graphqlapi.CategoryInput `json:"input"`
		}
		if err = json.Unmarshal(req.Variables, &v); err == nil {
			data, err = h.resolver.Create(ctx, v.Input)
		}
	case "update":
		var v struct {
			Input graphqlapi.CategoryInput `json:"input"`
		}
		if err = json.Unmarshal(req.Variables, &v); err == nil {
			data, err = h.resolver.Update(ctx, v.Input)
		}
	case "delete":
		var v struct {
			ID string `json:"id"`
		}
		if err = json.Unmarshal(req.Variables, &v); err == nil {
			data, err = h.resolver.Delete(ctx, v.ID)
		}
	default:
		err = errs.Newf(errs.Invalid, "unknown operation %q", req.OperationName)
	}

	if err != nil {
		writeGQLError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(gqlResponse{Data: map[string]any{req.OperationName: data}})
}

// writeGQLError reports err the way a gqlgen-generated handler would: as a
// gqlerror.Error carrying the standard "code" extension under the same key
// (errcode.ValidationFailed etc. are the constants gqlgen's generated
// servers use to classify resolver errors), even though this dispatcher is
// hand-written rather than generated (see gqlRequest's doc comment).
func writeGQLError(w http.ResponseWriter, status int, err error) {
	gqlErr := &gqlerror.Error{
		Message:    err.Error(),
		Extensions: map[string]any{"code": codeFor(err)},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(gqlResponse{Errors: []*gqlerror.Error{gqlErr}})
}

func codeFor(err error) string {
	switch errs.KindOf(err) {
	case errs.Invalid:
		return errcode.ValidationFailed
	case errs.NotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.Invalid:
		return http.StatusBadRequest
	case errs.NotFound:
		return http.StatusNotFound
	case errs.PoolExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
