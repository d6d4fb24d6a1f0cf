package pingpong

import (
	"context"

	"gitlab.crja72.ru/gospec/go5/pingpong/pkg/logger"
	"go.uber.org/zap"
)

type Interactor struct {
	logger   logger.Logger
	registry *Registry
}

func NewInteractor(logger logger.Logger, registry *Registry) Interactor {
	if registry == nil {
		registry = DefaultRegistry()
	}

	return Interactor{
		logger:   logger,
		registry: registry,
	}
}

func (i Interactor) Dispatch(ctx context.Context, kind string) (Response, error) {
	request, err := i.registry.Build(kind)
	if err != nil {
		i.logger.Warn(ctx, "rejected request", zap.String("kind", kind), zap.Error(err))
		return "", err
	}

	response := Send(request)
	i.logger.Debug(ctx, "dispatched request", zap.String("kind", kind), zap.String("response", string(response)))

	return response, nil
}

func (i Interactor) Kinds() []string {
	return i.registry.Kinds()
}
