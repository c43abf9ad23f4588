package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/franciscosanchezn/gin-recipe-match-api/internal/events"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/matching"
	"github.com/franciscosanchezn/gin-recipe-match-api/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// MatchRequest is the input of find-recipes. An empty Pantry means the user's stored pantry.
type MatchRequest struct {
	UserID  string
	Pantry  []string
	Filters matching.Filters
	Limit   int
}

// MatchResponse carries the ranked recipes, the count before truncation and the pantry used
type MatchResponse struct {
	Matches         []matching.RankedRecipe `json:"matches"`
	TotalMatches    int                     `json:"totalMatches" example:"2"`
	UserIngredients []string                `json:"userIngredients"`
}

// MatchingService runs the find-recipes and calculate-match use cases
type MatchingService interface {
	FindMatchingRecipes(ctx context.Context, req MatchRequest) (*MatchResponse, error)
	CalculateMatch(pantry, recipe []string) (matching.Result, error)
	// Wait blocks until background match record writes and events have finished
	Wait()
}

// MatchingOptions bounds the concurrency of a MatchingService
type MatchingOptions struct {
	Workers            int
	PersistConcurrency int
	PersistTimeout     time.Duration
}

type matchingService struct {
	retriever Retriever
	pantry    PantryReader
	sink      MatchRecordSink
	publisher events.Publisher

	workers        int
	persistTimeout time.Duration
	persistSem     *semaphore.Weighted
	inflight       sync.WaitGroup
}

func NewMatchingService(retriever Retriever, pantry PantryReader, sink MatchRecordSink, publisher events.Publisher, opts MatchingOptions) MatchingService {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.PersistConcurrency <= 0 {
		opts.PersistConcurrency = 4
	}
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = 5 * time.Second
	}
	return &matchingService{
		retriever:      retriever,
		pantry:         pantry,
		sink:           sink,
		publisher:      publisher,
		workers:        opts.Workers,
		persistTimeout: opts.PersistTimeout,
		persistSem:     semaphore.NewWeighted(int64(opts.PersistConcurrency)),
	}
}

func (s *matchingService) FindMatchingRecipes(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	if req.UserID == "" {
		return nil, ErrUnauthenticated
	}

	pantry := cleanNames(req.Pantry)
	if len(pantry) == 0 {
		items, err := s.pantry.GetPantryItems(ctx, req.UserID)
		if err != nil {
			return nil, storageError("get pantry items", err)
		}
		pantry = cleanNames(models.PantryNames(items))
	}

	recipes, err := s.retriever.AllValid(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := s.evaluate(ctx, pantry, recipes, req.Filters)
	if err != nil {
		return nil, err
	}
	ranked, total := matching.Rank(candidates, req.Limit)

	log.WithFields(logrus.Fields{
		"user_id":    req.UserID,
		"pantry":     len(pantry),
		"candidates": len(recipes),
		"total":      total,
		"returned":   len(ranked),
	}).Debug("Recipes matched")

	s.recordMatches(ctx, req.UserID, ranked)
	s.announce(ctx, req.UserID, ranked, total)

	return &MatchResponse{
		Matches:         ranked,
		TotalMatches:    total,
		UserIngredients: pantry,
	}, nil
}

// evaluate scores every recipe on a bounded pool. Results land at their scan index so
// the output order does not depend on scheduling.
func (s *matchingService) evaluate(ctx context.Context, pantry []string, recipes []models.Recipe, filters matching.Filters) ([]matching.RankedRecipe, error) {
	slots := make([]*matching.RankedRecipe, len(recipes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, recipe := range recipes {
		i, recipe := i, recipe
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if ranked, ok := matching.Evaluate(pantry, recipe, filters); ok {
				slots[i] = &ranked
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]matching.RankedRecipe, 0, len(slots))
	for _, slot := range slots {
		if slot != nil {
			candidates = append(candidates, *slot)
		}
	}
	return candidates, nil
}

// recordMatches writes one analytics record per match in the background.
// Failures are logged and never reach the caller.
func (s *matchingService) recordMatches(ctx context.Context, userID string, matches []matching.RankedRecipe) {
	if s.sink == nil || len(matches) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	now := time.Now().UTC()

	for _, match := range matches {
		recipeID, percentage := match.RecipeID, match.MatchPercentage
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			if err := s.persistSem.Acquire(ctx, 1); err != nil {
				return
			}
			defer s.persistSem.Release(1)

			writeCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
			defer cancel()
			if err := s.sink.PutMatchRecord(writeCtx, userID, recipeID, percentage, now); err != nil {
				log.WithError(err).WithFields(logrus.Fields{
					"user_id":   userID,
					"recipe_id": recipeID,
				}).Warn("Failed to persist match record")
			}
		}()
	}
}

// announce publishes matches.found off the request path
func (s *matchingService) announce(ctx context.Context, userID string, matches []matching.RankedRecipe, total int) {
	if s.publisher == nil {
		return
	}
	ids := make([]string, len(matches))
	for i, match := range matches {
		ids[i] = match.RecipeID
	}
	ctx = context.WithoutCancel(ctx)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		publishCtx, cancel := context.WithTimeout(ctx, s.persistTimeout)
		defer cancel()
		publish(publishCtx, s.publisher, events.TopicMatchesFound, map[string]any{
			"userId":       userID,
			"recipeIds":    ids,
			"totalMatches": total,
		})
	}()
}

func (s *matchingService) CalculateMatch(pantry, recipe []string) (matching.Result, error) {
	if pantry == nil || recipe == nil {
		return matching.Result{}, invalidInput("userIngredients and recipeIngredients are required")
	}
	return matching.Score(cleanNames(pantry), recipe)
}

func (s *matchingService) Wait() {
	s.inflight.Wait()
}

// cleanNames trims pantry names and drops blank ones
func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// publish is best effort, failures are only logged
func publish(ctx context.Context, publisher events.Publisher, topic string, payload any) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, topic, payload); err != nil {
		log.WithError(err).WithField("topic", topic).Warn("Failed to publish event")
	}
}
