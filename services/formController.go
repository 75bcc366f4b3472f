package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"rubricgen/catalog"
	"rubricgen/logger"
	"rubricgen/models"

	"github.com/samber/lo"
)

type Action int

const (
	ActionNone Action = iota
	ActionFetchCriteria
	ActionSuggestCompetencies
	ActionSuggestItems
	ActionGenerate
)

func (a Action) String() string {
	switch a {
	case ActionFetchCriteria:
		return "criteria"
	case ActionSuggestCompetencies:
		return "competencies"
	case ActionSuggestItems:
		return "items"
	case ActionGenerate:
		return "rubric"
	default:
		return "none"
	}
}

func ParseAction(name string) (Action, bool) {
	for _, a := range []Action{ActionFetchCriteria, ActionSuggestCompetencies, ActionSuggestItems, ActionGenerate} {
		if a.String() == name {
			return a, true
		}
	}
	return ActionNone, false
}

var (
	ErrBusy          = errors.New("another action is already running")
	ErrMissingFields = errors.New("required form fields are empty")
	ErrCannotSubmit  = errors.New("evaluation item weights must add up to 100")
	ErrStaleResult   = errors.New("the stage changed while the action was running")
	ErrIndex         = errors.New("index out of range")
)

const defaultActionTimeout = 90 * time.Second

// RubricGenerator is the model-backed work the controller dispatches to.
type RubricGenerator interface {
	SuggestCompetencies(ctx context.Context, stage, subject, topic string) ([]string, error)
	FetchCriteria(ctx context.Context, stage, subject, grade string, count int) ([]string, error)
	SuggestItems(ctx context.Context, stage, subject, topic string) ([]models.EvaluationItemConfig, error)
	GenerateRubric(ctx context.Context, form models.FormModel) (*models.Rubric, error)
}

type Status struct {
	FetchingCriteria       bool   `json:"fetchingCriteria"`
	SuggestingCompetencies bool   `json:"suggestingCompetencies"`
	SuggestingItems        bool   `json:"suggestingItems"`
	Generating             bool   `json:"generating"`
	Busy                   bool   `json:"busy"`
	TotalWeight            int    `json:"totalWeight"`
	CanSubmit              bool   `json:"canSubmit"`
	Error                  string `json:"error,omitempty"`
}

type Snapshot struct {
	Form   models.FormModel `json:"form"`
	Status Status           `json:"status"`
	Result *models.Rubric   `json:"result"`
}

// FormController owns the form, the error slot and the last rubric. All
// mutation goes through its methods. At most one model-backed action runs at a
// time; its result is dropped if the stage changed while it was in flight.
type FormController struct {
	mu        sync.Mutex
	form      models.FormModel
	result    *models.Rubric
	errMsg    string
	active    Action
	cancel    context.CancelFunc
	epoch     uint64
	generator RubricGenerator
	timeout   time.Duration
	log       *logger.Logger
}

type ControllerOption func(*FormController)

func WithActionTimeout(d time.Duration) ControllerOption {
	return func(c *FormController) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *logger.Logger) ControllerOption {
	return func(c *FormController) {
		if l != nil {
			c.log = l
		}
	}
}

func WithInitialForm(f models.FormModel) ControllerOption {
	return func(c *FormController) {
		c.form = f.Clone()
	}
}

// NewFormController starts from DefaultForm. The initial form is taken as is:
// only later stage changes reset the fields that depend on the stage.
func NewFormController(generator RubricGenerator, opts ...ControllerOption) *FormController {
	c := &FormController{
		form:      models.DefaultForm(),
		generator: generator,
		timeout:   defaultActionTimeout,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *FormController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.form.TotalWeight()
	return Snapshot{
		Form: c.form.Clone(),
		Status: Status{
			FetchingCriteria:       c.active == ActionFetchCriteria,
			SuggestingCompetencies: c.active == ActionSuggestCompetencies,
			SuggestingItems:        c.active == ActionSuggestItems,
			Generating:             c.active == ActionGenerate,
			Busy:                   c.active != ActionNone,
			TotalWeight:            total,
			CanSubmit:              total == 100 && c.active == ActionNone,
			Error:                  c.errMsg,
		},
		Result: c.result,
	}
}

func (c *FormController) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.TotalWeight() == 100 && c.active == ActionNone
}

func (c *FormController) SetStage(stage string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStageLocked(stage)
}

func (c *FormController) setStageLocked(stage string) bool {
	if stage == c.form.Stage {
		return false
	}

	c.form.Stage = stage
	c.form.Grade = firstOrEmpty(catalog.GradesFor(stage))
	c.form.Subject = firstOrEmpty(catalog.SubjectsFor(stage))
	c.form.Criteria = ""
	c.form.Competencies = []string{}
	c.epoch++

	c.log.Info("Stage changed, dependent fields reset", "stage", stage, "grade", c.form.Grade, "subject", c.form.Subject)
	return true
}

func (c *FormController) SetSubject(subject string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Subject = subject
}

func (c *FormController) SetGrade(grade string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Grade = grade
}

func (c *FormController) SetTopic(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Topic = topic
}

func (c *FormController) SetCriteria(criteria string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Criteria = criteria
}

func (c *FormController) ToggleCompetency(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx := slices.Index(c.form.Competencies, name); idx >= 0 {
		c.form.Competencies = slices.Delete(c.form.Competencies, idx, idx+1)
		return
	}
	c.form.Competencies = append(c.form.Competencies, name)
}

func (c *FormController) AddLevel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Levels = append(c.form.Levels, models.LevelDefinition{})
}

func (c *FormController) SetLevel(index int, name, score string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.form.Levels) {
		return fmt.Errorf("level %d: %w", index, ErrIndex)
	}
	c.form.Levels[index] = models.LevelDefinition{Name: name, Score: score}
	return nil
}

func (c *FormController) RemoveLevel(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.form.Levels) {
		return fmt.Errorf("level %d: %w", index, ErrIndex)
	}
	c.form.Levels = slices.Delete(c.form.Levels, index, index+1)
	return nil
}

func (c *FormController) AddItem() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.EvaluationItems = append(c.form.EvaluationItems, models.EvaluationItemConfig{})
}

// SetItem updates an evaluation item. Non-digit characters are dropped from
// the weight.
func (c *FormController) SetItem(index int, name, weight string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.form.EvaluationItems) {
		return fmt.Errorf("item %d: %w", index, ErrIndex)
	}
	c.form.EvaluationItems[index] = models.EvaluationItemConfig{Name: name, Weight: models.DigitsOnly(weight)}
	return nil
}

func (c *FormController) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.form.EvaluationItems) {
		return fmt.Errorf("item %d: %w", index, ErrIndex)
	}
	c.form.EvaluationItems = slices.Delete(c.form.EvaluationItems, index, index+1)
	return nil
}

// Apply replaces the form with next through the same rules as the individual
// setters. When next changes the stage, its grade, subject, criteria and
// competencies are ignored in favour of the reset values.
func (c *FormController) Apply(next models.FormModel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.setStageLocked(next.Stage) {
		c.form.Subject = next.Subject
		c.form.Grade = next.Grade
		c.form.Criteria = next.Criteria
		c.form.Competencies = lo.Uniq(next.Competencies)
	}
	c.form.Topic = next.Topic
	c.form.Levels = slices.Clone(next.Levels)
	c.form.EvaluationItems = make([]models.EvaluationItemConfig, len(next.EvaluationItems))
	for i, item := range next.EvaluationItems {
		c.form.EvaluationItems[i] = models.EvaluationItemConfig{Name: item.Name, Weight: models.DigitsOnly(item.Weight)}
	}
}

// Reset restores the default form and clears the error and the result.
func (c *FormController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = models.DefaultForm()
	c.result = nil
	c.errMsg = ""
	c.epoch++
}

// Cancel aborts the running action, if any.
func (c *FormController) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return false
	}
	c.log.Info("Cancelling action", "action", c.active.String())
	c.cancel()
	return true
}

func (c *FormController) Run(ctx context.Context, action Action) error {
	switch action {
	case ActionFetchCriteria:
		return c.FetchCriteria(ctx)
	case ActionSuggestCompetencies:
		return c.SuggestCompetencies(ctx)
	case ActionSuggestItems:
		return c.SuggestItems(ctx)
	case ActionGenerate:
		return c.Generate(ctx)
	default:
		return fmt.Errorf("unknown action %d", action)
	}
}

func (c *FormController) FetchCriteria(ctx context.Context) error {
	guard := func(f models.FormModel) error {
		if f.Stage == "" || f.Subject == "" || f.Grade == "" || len(f.EvaluationItems) == 0 {
			return ErrMissingFields
		}
		return nil
	}
	return c.run(ctx, ActionFetchCriteria, guard, func(ctx context.Context, f models.FormModel) (func(), error) {
		lines, err := c.generator.FetchCriteria(ctx, f.Stage, f.Subject, f.Grade, len(f.EvaluationItems))
		if err != nil {
			return nil, err
		}
		return func() { c.form.Criteria = strings.Join(lines, "\n") }, nil
	})
}

func (c *FormController) SuggestCompetencies(ctx context.Context) error {
	return c.run(ctx, ActionSuggestCompetencies, requireTopic, func(ctx context.Context, f models.FormModel) (func(), error) {
		suggested, err := c.generator.SuggestCompetencies(ctx, f.Stage, f.Subject, f.Topic)
		if err != nil {
			return nil, err
		}
		return func() { c.form.Competencies = lo.Uniq(suggested) }, nil
	})
}

func (c *FormController) SuggestItems(ctx context.Context) error {
	return c.run(ctx, ActionSuggestItems, requireTopic, func(ctx context.Context, f models.FormModel) (func(), error) {
		items, err := c.generator.SuggestItems(ctx, f.Stage, f.Subject, f.Topic)
		if err != nil {
			return nil, err
		}
		return func() { c.form.EvaluationItems = slices.Clone(items) }, nil
	})
}

// Generate asks for the full rubric. The previous result is cleared before
// the call, so a failed generation leaves no result.
func (c *FormController) Generate(ctx context.Context) error {
	guard := func(f models.FormModel) error {
		if f.TotalWeight() != 100 {
			return ErrCannotSubmit
		}
		return nil
	}
	return c.run(ctx, ActionGenerate, guard, func(ctx context.Context, f models.FormModel) (func(), error) {
		rubric, err := c.generator.GenerateRubric(ctx, f)
		if err != nil {
			return nil, err
		}
		return func() { c.result = rubric }, nil
	})
}

func requireTopic(f models.FormModel) error {
	if f.Stage == "" || f.Subject == "" || f.Topic == "" {
		return ErrMissingFields
	}
	return nil
}

// run executes one action. The guard and the merge run under the lock; the
// model call runs outside it on a snapshot of the form.
func (c *FormController) run(
	ctx context.Context,
	action Action,
	guard func(models.FormModel) error,
	call func(context.Context, models.FormModel) (func(), error),
) error {
	c.mu.Lock()
	if c.active != ActionNone {
		running := c.active
		c.mu.Unlock()
		c.log.Warn("Rejecting action while another is running", "action", action.String(), "running", running.String())
		return ErrBusy
	}
	if err := guard(c.form); err != nil {
		c.mu.Unlock()
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.active = action
	c.cancel = cancel
	c.errMsg = ""
	if action == ActionGenerate {
		c.result = nil
	}
	snapshot := c.form.Clone()
	epoch := c.epoch
	c.mu.Unlock()

	c.log.Info("Starting action", "action", action.String())
	merge, err := call(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = ActionNone
	c.cancel = nil

	if c.epoch != epoch {
		c.log.Warn("Discarding stale action result", "action", action.String(), "error", err)
		return ErrStaleResult
	}
	if err != nil {
		c.errMsg = userMessage(action, err)
		c.log.Error("Action failed", "action", action.String(), "error", err)
		return err
	}

	merge()
	c.log.Info("Action completed", "action", action.String())
	return nil
}

var (
	failurePrefixes = map[Action]string{
		ActionFetchCriteria:       "No se pudieron cargar los criterios",
		ActionSuggestCompetencies: "No se pudieron sugerir las competencias",
		ActionSuggestItems:        "No se pudieron sugerir los ítems",
		ActionGenerate:            "Error en la comunicación con la API",
	}
	failureFallbacks = map[Action]string{
		ActionFetchCriteria:       "Ha ocurrido un error inesperado al cargar los criterios.",
		ActionSuggestCompetencies: "Ha ocurrido un error inesperado al sugerir competencias.",
		ActionSuggestItems:        "Ha ocurrido un error inesperado al sugerir ítems.",
		ActionGenerate:            "Ha ocurrido un error inesperado.",
	}
)

// userMessage renders err for the error slot, falling back to a generic
// message when err carries no text.
func userMessage(action Action, err error) string {
	if err == nil || err.Error() == "" {
		return failureFallbacks[action]
	}

	prefix := failurePrefixes[action]
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return prefix + ": la solicitud ha superado el tiempo de espera."
	case errors.Is(err, context.Canceled):
		return prefix + ": la solicitud se ha cancelado."
	default:
		return prefix + ": " + err.Error()
	}
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
