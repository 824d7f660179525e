package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Gateway: единая точка исходящих вызовов к внешним сервисам.
type Gateway struct {
	essays  EssayClient
	checker PlagiarismClient
	log     *zap.SugaredLogger
}

func New(essays EssayClient, checker PlagiarismClient, log *zap.SugaredLogger) *Gateway {
	return &Gateway{
		essays:  essays,
		checker: checker,
		log:     log,
	}
}

func (g *Gateway) Generate(ctx context.Context, outline string) (string, error) {
	start := time.Now()
	g.log.Debugw("[gateway] generate start", "outline_len", len([]rune(outline)))

	essay, err := g.essays.Generate(ctx, outline)
	g.log.Infow("[gateway] generate done",
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"err", err,
	)

	return essay, err
}

func (g *Gateway) CheckPlagiarism(ctx context.Context, text string) (string, error) {
	start := time.Now()
	g.log.Debugw("[gateway] check start", "text_len", len([]rune(text)))

	result, err := g.checker.Check(ctx, text)
	g.log.Infow("[gateway] check done",
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"err", err,
	)

	return result, err
}
