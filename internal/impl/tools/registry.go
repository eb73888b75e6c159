package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/drujensen/wearables/internal/domain/entities"
	"github.com/drujensen/wearables/internal/domain/errors"
	"github.com/drujensen/wearables/internal/domain/interfaces"

	"go.uber.org/zap"
)

type ToolKind int

const (
	DailySteps ToolKind = iota
	SleepData
	HeartRate
	ActivityHistory
	WeeklySummary
	DeviceInfo
	DateRangeSearch
)

var toolNames = map[ToolKind]string{
	DailySteps:      "daily_steps_tool",
	SleepData:       "sleep_data_tool",
	HeartRate:       "heart_rate_tool",
	ActivityHistory: "activity_history_tool",
	WeeklySummary:   "weekly_summary_tool",
	DeviceInfo:      "device_info_tool",
	DateRangeSearch: "date_range_search_tool",
}

func (k ToolKind) String() string {
	if name, ok := toolNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ToolKind(%d)", int(k))
}

// AllKinds lists every tool kind in declaration order.
func AllKinds() []ToolKind {
	return []ToolKind{DailySteps, SleepData, HeartRate, ActivityHistory, WeeklySummary, DeviceInfo, DateRangeSearch}
}

type handlerFunc func(ctx context.Context, arguments map[string]any) (string, error)

// bind adapts a typed handler to the loose argument map the model sends.
func bind[T any](fn func(ctx context.Context, args T) (string, error)) handlerFunc {
	return func(ctx context.Context, arguments map[string]any) (string, error) {
		args, err := decodeArgs[T](arguments)
		if err != nil {
			return "", errors.ValidationErrorf("%v", err)
		}
		return fn(ctx, args)
	}
}

type registryEntry struct {
	kind    ToolKind
	spec    *entities.ToolSpec
	handler handlerFunc
}

// Env is what every tool needs to answer a query.
type Env struct {
	Repo   interfaces.MetricsRepository
	UserID int
	Now    func() time.Time
	Logger *zap.Logger
}

type Registry struct {
	entries map[string]*registryEntry
	order   []string
	logger  *zap.Logger
}

func NewRegistry(env Env) (*Registry, error) {
	if env.Repo == nil {
		return nil, errors.InternalErrorf("metrics repository is required")
	}
	if env.Now == nil {
		env.Now = time.Now
	}
	if env.UserID == 0 {
		env.UserID = 1
	}
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}

	specs := map[ToolKind]*entities.ToolSpec{
		DailySteps:      dailyStepsSpec(),
		SleepData:       sleepDataSpec(),
		HeartRate:       heartRateSpec(),
		ActivityHistory: activityHistorySpec(),
		WeeklySummary:   weeklySummarySpec(),
		DeviceInfo:      deviceInfoSpec(),
		DateRangeSearch: dateRangeSpec(),
	}
	handlers := map[ToolKind]handlerFunc{
		DailySteps:      bind(newDailyStepsTool(env).run),
		SleepData:       bind(newSleepDataTool(env).run),
		HeartRate:       bind(newHeartRateTool(env).run),
		ActivityHistory: bind(newActivityHistoryTool(env).run),
		WeeklySummary:   bind(newWeeklySummaryTool(env).run),
		DeviceInfo:      bind(newDeviceInfoTool(env).run),
		DateRangeSearch: bind(newDateRangeTool(env).run),
	}

	return buildRegistry(AllKinds(), specs, handlers, env.Logger)
}

// buildRegistry checks that kinds, specs and handlers line up one to one.
func buildRegistry(kinds []ToolKind, specs map[ToolKind]*entities.ToolSpec, handlers map[ToolKind]handlerFunc, logger *zap.Logger) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]*registryEntry, len(kinds)),
		logger:  logger,
	}

	for _, kind := range kinds {
		spec, ok := specs[kind]
		if !ok || spec == nil {
			return nil, errors.InternalErrorf("tool %s has no spec", kind)
		}
		handler, ok := handlers[kind]
		if !ok || handler == nil {
			return nil, errors.InternalErrorf("tool %s has no handler", kind)
		}
		if spec.Name != kind.String() {
			return nil, errors.InternalErrorf("tool %s is registered under spec name '%s'", kind, spec.Name)
		}
		if _, dup := r.entries[spec.Name]; dup {
			return nil, errors.InternalErrorf("duplicate tool name '%s'", spec.Name)
		}
		r.entries[spec.Name] = &registryEntry{kind: kind, spec: spec, handler: handler}
		r.order = append(r.order, spec.Name)
	}

	if len(specs) != len(kinds) {
		return nil, errors.InternalErrorf("%d tool specs registered for %d tool kinds", len(specs), len(kinds))
	}
	if len(handlers) != len(kinds) {
		return nil, errors.InternalErrorf("%d tool handlers registered for %d tool kinds", len(handlers), len(kinds))
	}

	return r, nil
}

func (r *Registry) Specs() []*entities.ToolSpec {
	specs := make([]*entities.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.entries[name].spec)
	}
	return specs
}

func (r *Registry) Names() []string {
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

func (r *Registry) Execute(ctx context.Context, name string, arguments map[string]any) (string, error) {
	entry, ok := r.entries[name]
	if !ok {
		return "", errors.NotFoundErrorf("tool '%s' not found", name)
	}

	r.logger.Debug("Executing tool", zap.String("tool", name), zap.Any("arguments", arguments))
	out, err := entry.handler(ctx, arguments)
	if err != nil {
		r.logger.Error("Tool returned an error", zap.String("tool", name), zap.Error(err))
		return "", err
	}
	return out, nil
}

var _ interfaces.ToolExecutor = (*Registry)(nil)
