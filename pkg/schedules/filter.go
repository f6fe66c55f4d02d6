package schedules

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/travigo/railreserve/pkg/railway"
)

// FilterEnv is what a filter expression can see of a schedule
type FilterEnv struct {
	TransitLine     string
	Origin          string
	Destination     string
	Departure       time.Time
	Arrival         time.Time
	Fare            float64
	DurationMinutes float64
}

func newFilterEnv(schedule railway.Schedule) FilterEnv {
	fare, _ := schedule.Fare.Float64()

	return FilterEnv{
		TransitLine:     schedule.TransitLine,
		Origin:          schedule.OriginName,
		Destination:     schedule.DestinationName,
		Departure:       schedule.Departure.Time,
		Arrival:         schedule.Arrival.Time,
		Fare:            fare,
		DurationMinutes: schedule.Duration().Minutes(),
	}
}

type Filter struct {
	Expression string
	program    *vm.Program
}

// CompileFilter accepts an expr boolean expression such as
// `Fare < 50 && Departure.Hour() >= 8`. An empty expression matches everything.
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(expression, expr.Env(FilterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid schedule filter: %w", err)
	}

	return &Filter{Expression: expression, program: program}, nil
}

func (f *Filter) Match(schedule railway.Schedule) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}

	result, err := expr.Run(f.program, newFilterEnv(schedule))
	if err != nil {
		return false, err
	}

	return result.(bool), nil
}

// Apply keeps the matching schedules in their original order
func (f *Filter) Apply(schedules []railway.Schedule) ([]railway.Schedule, error) {
	filtered := make([]railway.Schedule, 0, len(schedules))

	for _, schedule := range schedules {
		matched, err := f.Match(schedule)
		if err != nil {
			return nil, fmt.Errorf("filter schedule %s: %w", schedule.TransitLine, err)
		}

		if matched {
			filtered = append(filtered, schedule)
		}
	}

	return filtered, nil
}
