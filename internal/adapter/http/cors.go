package httpadapter

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const corsAllowMethods = "GET,POST,PUT,PATCH,DELETE,OPTIONS"
const corsAllowHeaders = "Content-Type,X-Actor,X-Request-ID"

// applyCORSHeaders answers for allowOrigin, or any origin when it is empty.
func applyCORSHeaders(ctx *app.RequestContext, allowOrigin string) {
	if strings.TrimSpace(allowOrigin) == "" {
		allowOrigin = "*"
	}
	ctx.Response.Header.Set("Access-Control-Allow-Origin", allowOrigin)
	if allowOrigin != "*" {
		ctx.Response.Header.Set("Vary", "Origin")
	}
	ctx.Response.Header.Set("Access-Control-Allow-Methods", corsAllowMethods)
	ctx.Response.Header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
	ctx.Response.Header.Set("Access-Control-Expose-Headers", requestIDHeader)
	ctx.Response.Header.Set("Access-Control-Max-Age", "600")
}

func corsMiddleware(allowOrigin string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		applyCORSHeaders(ctx, allowOrigin)
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
