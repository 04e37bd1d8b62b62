package cli

import (
	"context"
	"fmt"
	"strings"

	dto "github.com/prometheus/client_model/go"
)

// Stats prints the API client counters collected during this run.
func (a *App) Stats(context.Context) error {
	if a.metrics == nil {
		fmt.Fprintln(a.out, "No statistics available.")
		return nil
	}

	families, err := a.metrics.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintln(a.out, formatMetric(mf.GetName(), m))
		}
	}
	return nil
}

// formatMetric renders one sample as `name{k=v,...} value`. Histograms show
// their count and total seconds.
func formatMetric(name string, m *dto.Metric) string {
	if len(m.GetLabel()) > 0 {
		labels := make([]string, 0, len(m.GetLabel()))
		for _, l := range m.GetLabel() {
			labels = append(labels, l.GetName()+"="+l.GetValue())
		}
		name += "{" + strings.Join(labels, ",") + "}"
	}

	switch {
	case m.GetHistogram() != nil:
		h := m.GetHistogram()
		return fmt.Sprintf("%s count=%d sum=%.3fs", name, h.GetSampleCount(), h.GetSampleSum())
	case m.GetCounter() != nil:
		return fmt.Sprintf("%s %g", name, m.GetCounter().GetValue())
	case m.GetGauge() != nil:
		return fmt.Sprintf("%s %g", name, m.GetGauge().GetValue())
	default:
		return name
	}
}
