package rubric

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"rubricgen/catalog"
	"rubricgen/logger"
	"rubricgen/models"
	"rubricgen/services/gateway"
	"rubricgen/services/prompt"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Service runs the four model-backed operations: it builds each prompt, sends
// it through the gateway and post-processes the decoded reply.
type Service struct {
	gateway      *gateway.Gateway
	competencies []string
	log          *logger.Logger
}

func NewService(gw *gateway.Gateway, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		gateway:      gw,
		competencies: catalog.Competencies(),
		log:          log,
	}
}

func (s *Service) SuggestCompetencies(ctx context.Context, stage, subject, topic string) ([]string, error) {
	s.log.Info("Starting competency suggestion", "stage", stage, "subject", subject)

	req := prompt.BuildCompetencySuggestion(stage, subject, topic, s.competencies)
	reply, err := gateway.Decode[models.CompetencySuggestion](ctx, s.gateway, req)
	if err != nil {
		return nil, err
	}

	matched := make([]string, 0, len(reply.Competencies))
	for _, name := range reply.Competencies {
		canonical, ok := s.matchCompetency(name)
		if !ok {
			s.log.Warn("Dropping competency outside the closed set", "name", name)
			continue
		}
		matched = append(matched, canonical)
	}
	matched = lo.Uniq(matched)

	if len(matched) == 0 {
		return nil, &gateway.ValidationError{Op: req.Name, Reason: "no suggested competency belongs to the catalog"}
	}

	s.log.Info("Successfully suggested competencies", "count", len(matched))
	return matched, nil
}

func (s *Service) FetchCriteria(ctx context.Context, stage, subject, grade string, count int) ([]string, error) {
	s.log.Info("Starting curriculum criteria fetch", "stage", stage, "subject", subject, "grade", grade, "count", count)

	req := prompt.BuildCriteriaFetch(stage, subject, grade, count)
	reply, err := gateway.Decode[models.CriteriaList](ctx, s.gateway, req)
	if err != nil {
		return nil, err
	}

	lines := lo.Map(reply.Criteria, func(c models.Criterion, _ int) string {
		return fmt.Sprintf("%s. %s", strings.TrimSpace(c.Number), strings.TrimSpace(c.Description))
	})

	s.log.Info("Successfully fetched criteria", "count", len(lines))
	return lines, nil
}

func (s *Service) SuggestItems(ctx context.Context, stage, subject, topic string) ([]models.EvaluationItemConfig, error) {
	s.log.Info("Starting evaluation item suggestion", "stage", stage, "subject", subject)

	req := prompt.BuildItemSuggestion(stage, subject, topic)
	reply, err := gateway.Decode[models.ItemSuggestion](ctx, s.gateway, req)
	if err != nil {
		return nil, err
	}

	total := models.FormModel{EvaluationItems: reply.Items}.TotalWeight()
	items, err := gateway.NormalizeWeights(reply.Items)
	if err != nil {
		return nil, &gateway.ValidationError{Op: req.Name, Reason: "cannot rescale item weights", Err: err}
	}
	if total != 100 {
		s.log.Warn("Rescaled suggested item weights", "total", total)
	}

	s.log.Info("Successfully suggested items", "count", len(items))
	return items, nil
}

func (s *Service) GenerateRubric(ctx context.Context, form models.FormModel) (*models.Rubric, error) {
	s.log.Info("Starting rubric generation", "stage", form.Stage, "items", len(form.EvaluationItems), "levels", len(form.Levels))

	req := prompt.BuildRubric(form)
	rubric, err := gateway.Decode[models.Rubric](ctx, s.gateway, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("Successfully generated rubric", "items", len(rubric.Items))
	return rubric, nil
}

// matchCompetency snaps a model-produced name onto the closed catalog list:
// exact match, then case-insensitive, then by abbreviation, then the closest
// fuzzy match as long as it is within half the catalog name's length.
func (s *Service) matchCompetency(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}

	for _, c := range s.competencies {
		if c == name {
			return c, true
		}
	}
	for _, c := range s.competencies {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}

	code := catalog.CompetencyCode(name)
	if code == "" {
		code = name
	}
	for _, c := range s.competencies {
		if strings.EqualFold(catalog.CompetencyCode(c), code) {
			return c, true
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(name, s.competencies)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)
	best := ranks[0]
	if best.Distance > utf8.RuneCountInString(best.Target)/2 {
		return "", false
	}
	return best.Target, true
}
