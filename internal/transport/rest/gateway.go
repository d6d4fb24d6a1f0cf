package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/rs/cors"
	"github.com/tmc/grpc-websocket-proxy/wsproxy"
	transport "gitlab.crja72.ru/gospec/go5/pingpong/internal/transport/grpc"
	"gitlab.crja72.ru/gospec/go5/pingpong/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const SendPath = "/v1/send/{kind}"

// Sender is satisfied by the gRPC client.
type Sender interface {
	Send(ctx context.Context, kind string) (string, error)
}

func PingPongHeaderMatcher(key string) (string, bool) {
	if strings.EqualFold(key, transport.RequestIDHeader) {
		return transport.RequestIDHeader, true
	}

	return runtime.DefaultHeaderMatcher(key)
}

// WebsocketParamMutator moves the request_id query parameter into the request id header.
func WebsocketParamMutator(incoming *http.Request, outgoing *http.Request) *http.Request {
	if id := incoming.URL.Query().Get("request_id"); id != "" {
		outgoing.Header.Set(transport.RequestIDHeader, id)
	}

	return outgoing
}

// WithLogger makes l available to handlers through logger.GetLoggerFromCtx.
func WithLogger(l logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), l)))
	})
}

func NewMux(sender Sender) (*runtime.ServeMux, error) {
	mux := runtime.NewServeMux(
		runtime.WithIncomingHeaderMatcher(PingPongHeaderMatcher),
	)

	err := mux.HandlePath(http.MethodGet, SendPath, func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		_, outbound := runtime.MarshalerForRequest(mux, r)
		l := logger.GetLoggerFromCtx(r.Context())

		ctx, err := runtime.AnnotateContext(r.Context(), mux, r, transport.SendMethod, runtime.WithHTTPPathPattern(SendPath))
		if err != nil {
			runtime.HTTPError(r.Context(), mux, outbound, w, r, err)
			return
		}

		kind := pathParams["kind"]
		response, err := sender.Send(ctx, kind)
		if err != nil {
			l.Warn(ctx, "gateway send failed", zap.String("kind", kind), zap.Error(err))
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}

		msg := wrapperspb.String(response)
		body, err := outbound.Marshal(msg)
		if err != nil {
			runtime.HTTPError(ctx, mux, outbound, w, r, err)
			return
		}

		w.Header().Set("Content-Type", outbound.ContentType(msg))
		if _, err := w.Write(body); err != nil {
			l.Error(ctx, "failed to write response", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}

	return mux, nil
}

// NewHandler wraps the gateway mux with websocket proxying and CORS.
func NewHandler(l logger.Logger, sender Sender) (http.Handler, error) {
	gwMux, err := NewMux(sender)
	if err != nil {
		return nil, err
	}

	wsMux := wsproxy.WebsocketProxy(gwMux,
		wsproxy.WithRequestMutator(WebsocketParamMutator),
		wsproxy.WithForwardedHeaders(
			func(header string) bool {
				_, ok := PingPongHeaderMatcher(header)
				return ok
			},
		),
	)

	return cors.New(cors.Options{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"ACCEPT", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(WithLogger(l, wsMux)), nil
}
