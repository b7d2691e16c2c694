// Package orchestrator implements the Orchestrator (C11): it composes the
// intent classifier, normalizer, resolver, planner, query generator,
// retriever, and synthesizer with speculative parallelism, fallback, and
// per-request telemetry (spec §4.11, §5).
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ualberta-rcg/research-qa/internal/apperr"
	"github.com/ualberta-rcg/research-qa/internal/intent"
	"github.com/ualberta-rcg/research-qa/internal/logger"
	"github.com/ualberta-rcg/research-qa/internal/planner"
	"github.com/ualberta-rcg/research-qa/internal/prompts"
	"github.com/ualberta-rcg/research-qa/internal/querygen"
	"github.com/ualberta-rcg/research-qa/internal/resolver"
	"github.com/ualberta-rcg/research-qa/internal/retriever"
	"github.com/ualberta-rcg/research-qa/internal/synthesizer"
	"github.com/ualberta-rcg/research-qa/internal/types"
)

// Request is a single orchestrated question (spec §6's /api/query body).
type Request struct {
	Question       string
	SelectedUserID string
	History        []types.Turn
}

// Response mirrors the /api/query response body (spec §6).
type Response struct {
	Answer       string                  `json:"answer"`
	Intent       types.Intent            `json:"intent"`
	Cypher       string                  `json:"cypher"`
	DBRows       []types.Row             `json:"dbRows"`
	SemanticHits []types.PublicationHit `json:"semanticHits"`
	Candidates   []types.Candidate       `json:"candidates,omitempty"`
	Telemetry    *types.Telemetry        `json:"telemetry"`
	Error        string                  `json:"error,omitempty"`
	History      []types.Turn            `json:"-"`
}

// Timeouts holds the request deadlines (spec §5's cancellation & timeout
// guarantee). Handle applies Overall as the deadline of the whole request;
// External is not applied to individual calls, so each external call is
// bounded only by the overall deadline.
type Timeouts struct {
	Overall  time.Duration
	External time.Duration
}

// DefaultTimeouts returns reasonable defaults: a 20s overall deadline and an
// External value of 8s.
func DefaultTimeouts() Timeouts {
	return Timeouts{Overall: 20 * time.Second, External: 8 * time.Second}
}

// Orchestrator drives the pipeline.
type Orchestrator struct {
	graph       types.GraphClient
	llm         types.LLMClient
	registry    *prompts.Registry
	classifier  *intent.Classifier
	resolver    *resolver.Resolver
	generator   *querygen.Generator
	retriever   *retriever.Retriever
	synth       *synthesizer.Synthesizer
	timeouts    Timeouts
}

// New constructs an Orchestrator from its collaborators.
func New(
	graph types.GraphClient,
	llm types.LLMClient,
	registry *prompts.Registry,
	res *resolver.Resolver,
	gen *querygen.Generator,
	ret *retriever.Retriever,
	synth *synthesizer.Synthesizer,
	timeouts Timeouts,
) *Orchestrator {
	return &Orchestrator{
		graph:      graph,
		llm:        llm,
		registry:   registry,
		classifier: intent.NewClassifier(llm, registry),
		resolver:   res,
		generator:  gen,
		retriever:  ret,
		synth:      synth,
		timeouts:   timeouts,
	}
}

// Handle runs the full pipeline for req, never panicking out to the caller:
// recoverable failures produce a structurally valid Response with Error set
// (spec §7's propagation policy), and a panic is recovered into a non-nil
// error. The HTTP layer only converts to 500 if Handle itself returns a
// non-nil error, which happens for an empty question or a recovered panic.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (resp *Response, err error) {
	telemetry := types.NewTelemetry()

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "orchestrator: recovered panic: %v", r)
			err = fmt.Errorf("orchestrator: uncaught failure: %v", r)
		}
	}()

	if req.Question == "" {
		return nil, fmt.Errorf("%w: question is required", apperr.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeouts.Overall)
	defer cancel()

	resp = &Response{Telemetry: telemetry, History: req.History}

	// Step 0: intent classification and question embedding issue together;
	// both are awaited before proceeding (spec §5's mandatory parallelism).
	var (
		classifiedIntent types.Intent
		questionEmbedding []float32
	)
	stage(telemetry, "classify_and_embed", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			classifiedIntent = o.classifier.Classify(gctx, req.Question, historyToMessages(req.History))
			return nil
		})
		g.Go(func() error {
			emb, err := o.llm.Embed(gctx, req.Question)
			if err != nil {
				logger.Warnf(gctx, "orchestrator: question embedding failed: %v", err)
				emb = []float32{}
			}
			questionEmbedding = emb
			return nil
		})
		return g.Wait()
	})

	normalized := intent.Normalize(classifiedIntent)

	state := planner.AfterClassification(normalized, req.SelectedUserID)

	authorID := req.SelectedUserID
	directSelection := req.SelectedUserID != ""

	if state == planner.Resolve {
		var resolved resolver.Result
		err := stage(telemetry, "resolve_author", func() error {
			var rerr error
			resolved, rerr = o.resolver.Resolve(ctx, normalized.Author)
			return rerr
		})
		if err != nil {
			logger.Errorf(ctx, "orchestrator: author resolution failed: %v", err)
			resp.Error = fmt.Sprintf("author resolution failed: %v", err)
			telemetry.Resolution = &types.ResolutionMetadata{Path: types.ResolutionNone}
			return resp, nil
		}

		telemetry.Resolution = &types.ResolutionMetadata{
			Path:        resolutionPath(resolved),
			FuzzyScores: resolved.Scores,
		}

		outcome := planner.OutcomeNone
		switch resolved.Path {
		case types.ResolutionExact:
			outcome = planner.OutcomeExact
			authorID = resolved.AuthorID
		case types.ResolutionFuzzy:
			outcome = planner.OutcomeFuzzy
		}

		if planner.AfterResolve(outcome) == planner.ReturnCandidates {
			resp.Intent = normalized
			resp.Candidates = resolved.Candidates
			resp.Answer = "I found more than one researcher matching that name. Please choose one to continue."
			return resp, nil
		}
	}

	promoted := planner.Promote(normalized, authorID, directSelection)
	promoted = intent.Normalize(promoted)

	var finalResp *Response
	if planner.Route(promoted) == planner.Template {
		finalResp, err = o.runTemplatePath(ctx, req, promoted, questionEmbedding, telemetry)
	} else {
		finalResp, err = o.runSemanticFallbackPath(ctx, req, promoted, questionEmbedding, telemetry)
	}
	if err != nil {
		resp.Intent = promoted
		resp.Error = err.Error()
		return resp, nil
	}

	finalResp.Telemetry = telemetry
	finalResp.History = appendTurns(req.History, req.Question, finalResp.Answer)
	return finalResp, nil
}

func resolutionPath(r resolver.Result) types.ResolutionPath {
	if r.Path == "" {
		return types.ResolutionNone
	}
	return r.Path
}

// stage runs fn and records its wall-clock duration under name in telemetry,
// regardless of outcome.
func stage(t *types.Telemetry, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.Timings[name] = time.Since(start).Seconds()
	return err
}

func historyToMessages(turns []types.Turn) []types.ChatMessage {
	msgs := make([]types.ChatMessage, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, types.ChatMessage{Role: t.Role, Content: t.Content})
	}
	return msgs
}

// appendTurns returns a new history slice with exactly one user turn then
// one assistant turn appended, trimmed to the most recent MaxHistoryTurns
// (spec §5, §8). The caller's slice is never mutated in place.
func appendTurns(history []types.Turn, question, answer string) []types.Turn {
	out := make([]types.Turn, 0, len(history)+2)
	out = append(out, history...)
	out = append(out, types.Turn{Role: types.RoleUser, Content: question})
	out = append(out, types.Turn{Role: types.RoleAssistant, Content: answer})
	if len(out) > types.MaxHistoryTurns {
		out = out[len(out)-types.MaxHistoryTurns:]
	}
	return out
}
