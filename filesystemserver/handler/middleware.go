package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

// ToolMiddleware gives every tool call a request-scoped logger and records
// the call in the metrics collector.
func (fs *FilesystemHandler) ToolMiddleware(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := request.Params.Name
		ctx = fs.requestContext(ctx, name)
		log := zerolog.Ctx(ctx)

		start := time.Now()
		op := fs.metrics.StartOperation(name)
		result, err := next(ctx, request)

		switch {
		case err != nil:
			fs.metrics.EndOperation(op, false, err.Error())
			log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("tool call failed")
		case result != nil && result.IsError:
			msg := firstText(result)
			fs.metrics.EndOperation(op, false, msg)
			log.Warn().Str("error", msg).Dur("elapsed", time.Since(start)).Msg("tool call returned error")
		default:
			fs.metrics.EndOperation(op, true, "")
			log.Debug().Dur("elapsed", time.Since(start)).Msg("tool call completed")
		}
		return result, err
	}
}

// requestContext attaches a child logger carrying a fresh request id.
func (fs *FilesystemHandler) requestContext(ctx context.Context, operation string) context.Context {
	logger := fs.logger.With().
		Str("request_id", uuid.NewString()).
		Str("tool", operation).
		Logger()
	return logger.WithContext(ctx)
}

func firstText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return fmt.Sprint(result.Content)
}
