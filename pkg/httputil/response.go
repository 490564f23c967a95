package httputil

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
)

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)

	body, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBody([]byte(`{"error":"failed to marshal response"}`))
		return
	}

	ctx.SetBody(body)
}

// WriteErrorMessage writes an {"error": message} JSON response.
func WriteErrorMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	WriteJSON(ctx, status, map[string]string{"error": message})
}
