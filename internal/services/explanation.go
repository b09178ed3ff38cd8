package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/yungbote/petfit-backend/internal/clients/openai"
	"github.com/yungbote/petfit-backend/internal/observability"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

var ErrExplanationUnavailable = errors.New("explanation generator unavailable")

// ExplanationInput is everything the generator sees about one recommended item.
type ExplanationInput struct {
	Pet         PetSummary
	BrandName   string
	ProductName string
	Reasons     []string
}

type ExplanationGenerator interface {
	Explain(ctx context.Context, in ExplanationInput) (string, error)
}

type ExplanationConfig struct {
	Timeout         time.Duration
	RatePerSecond   float64
	Burst           int
	BreakerFailures uint32
	BreakerOpen     time.Duration
}

func (c ExplanationConfig) withDefaults() ExplanationConfig {
	if c.Timeout <= 0 {
		c.Timeout = 8 * time.Second
	}
	if c.RatePerSecond <= 0 {
		c.RatePerSecond = 5
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerOpen <= 0 {
		c.BreakerOpen = 30 * time.Second
	}
	return c
}

type llmExplainer struct {
	log     *logger.Logger
	client  openai.Client
	cfg     ExplanationConfig
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
}

// NewLLMExplainer wraps the text client with a rate limiter and a circuit breaker.
func NewLLMExplainer(log *logger.Logger, client openai.Client, cfg ExplanationConfig) ExplanationGenerator {
	cfg = cfg.withDefaults()
	l := log.With("service", "ExplanationGenerator")
	e := &llmExplainer{
		log:     l,
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}
	e.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "explanation",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return e
}

func (e *llmExplainer) Explain(ctx context.Context, in ExplanationInput) (string, error) {
	if e.client == nil {
		return "", ErrExplanationUnavailable
	}
	if !e.limiter.Allow() {
		observability.ExplanationFailures.WithLabelValues("rate_limited").Inc()
		return "", fmt.Errorf("%w: rate limited", ErrExplanationUnavailable)
	}
	text, err := e.breaker.Execute(func() (string, error) {
		cctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
		out, err := e.client.GenerateText(cctx, explanationSystemPrompt, explanationUserPrompt(in))
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "" {
			return "", errors.New("empty explanation")
		}
		return strings.TrimSpace(out), nil
	})
	if err != nil {
		reason := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			reason = "breaker_open"
			err = fmt.Errorf("%w: %v", ErrExplanationUnavailable, err)
		}
		observability.ExplanationFailures.WithLabelValues(reason).Inc()
		return "", err
	}
	return text, nil
}

const explanationSystemPrompt = `너는 반려동물 사료 추천 전문가다.
사용자에게 추천 이유를 친절하고 간결하게 설명해줘.
한국어로 자연스럽게 설명하고, 전문 용어는 피하고 쉬운 말로 풀어서 설명해줘.
설명은 1-2문장으로 간결하게 작성해줘.`

func explanationUserPrompt(in ExplanationInput) string {
	p := in.Pet
	species := "고양이"
	if p.Species == "DOG" {
		species = "강아지"
	}
	stage := map[string]string{"PUPPY": "강아지", "ADULT": "성견", "SENIOR": "노견"}[p.AgeStage]
	if stage == "" {
		stage = "성견"
	}
	neutered := "모름"
	if p.IsNeutered != nil {
		neutered = "미완료"
		if *p.IsNeutered {
			neutered = "완료"
		}
	}
	breed := p.BreedCode
	if breed == "" {
		breed = "정보 없음"
	}

	var b strings.Builder
	b.WriteString("펫 정보:\n")
	fmt.Fprintf(&b, "- 이름: %s\n", p.Name)
	fmt.Fprintf(&b, "- 종류: %s\n", species)
	fmt.Fprintf(&b, "- 나이 단계: %s\n", stage)
	fmt.Fprintf(&b, "- 체중: %gkg\n", p.WeightKg)
	fmt.Fprintf(&b, "- 품종: %s\n", breed)
	fmt.Fprintf(&b, "- 중성화: %s\n", neutered)
	fmt.Fprintf(&b, "- 건강 고민: %s\n", joinOrNone(p.HealthConcerns))
	fmt.Fprintf(&b, "- 알레르기: %s\n\n", joinOrNone(append(append([]string{}, p.FoodAllergies...), p.OtherAllergies...)))
	b.WriteString("추천 상품:\n")
	fmt.Fprintf(&b, "- 브랜드: %s\n", in.BrandName)
	fmt.Fprintf(&b, "- 상품명: %s\n\n", in.ProductName)
	b.WriteString("추천 이유 (기술적):\n")
	for _, r := range in.Reasons {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\n위 정보를 바탕으로, 이 사료가 왜 이 펫에게 추천되는지 자연스럽고 친절하게 설명해줘.\n")
	b.WriteString("설명은 1-2문장으로 간결하게 작성하고, 펫 이름을 사용해서 친근하게 설명해줘.")
	return b.String()
}

func joinOrNone(vals []string) string {
	if len(vals) == 0 {
		return "없음"
	}
	return strings.Join(vals, ", ")
}
