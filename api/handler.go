// Package api - HTTP handler for compliance evaluation
// The handler wraps the evaluator; it contains NO metric or rule logic.
// All computation is delegated to core packages.
package api

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rf-compliance/core/compliance"
	"rf-compliance/core/criteria"
	"rf-compliance/core/device"
	"rf-compliance/core/report"
	"rf-compliance/internal/errors"
	"rf-compliance/internal/metrics"
)

// Handler executes evaluation requests.
type Handler struct {
	evaluator *compliance.Evaluator
	log       *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		evaluator: compliance.NewEvaluator(log),
		log:       log,
	}
}

// execute runs one evaluation request end to end and builds the report.
func (h *Handler) execute(req *EvaluateRequest) (*report.Report, error) {
	start := time.Now()
	metrics.EvaluationsTotal.Inc()

	measurementID := uuid.New()
	if req.MeasurementID != "" {
		id, err := uuid.Parse(req.MeasurementID)
		if err != nil {
			return nil, errors.Validation("invalid measurement_id")
		}
		measurementID = id
	}

	network, err := req.Network.toNetwork()
	if err != nil {
		return nil, err
	}
	if err := req.Ports.Validate(); err != nil {
		return nil, err
	}
	crits, err := toCriteria(req.Criteria, uuid.Nil)
	if err != nil {
		return nil, err
	}

	results := h.evaluator.Evaluate(measurementID, network, req.Ports, crits,
		req.OperationalFreqMinGHz, req.OperationalFreqMaxGHz)

	if skipped := expectedResults(crits, req.Ports, network.NPorts()) - len(results); skipped > 0 {
		metrics.LabelSkipsTotal.Add(float64(skipped))
	}

	rep := report.Build(measurementID, results, crits)
	metrics.ObserveResults(rep.PassedCount, rep.FailedCount)
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())

	h.log.Info("evaluation complete",
		zap.String("measurement_id", measurementID.String()),
		zap.Int("criteria", len(crits)),
		zap.Int("results", rep.TotalResults),
		zap.Bool("overall_passed", rep.OverallPassed))

	return rep, nil
}

// expectedResults counts the results a clean evaluation would produce: one
// per gain label for the gain, flatness and OOB families, one per
// reflection label for VSWR, none for unclassified criteria. The shortfall
// against the actual result count is the number of labels skipped over
// calculation errors.
func expectedResults(crits []*criteria.Criterion, ports device.PortConfig, nPorts int) int {
	gainN := len(ports.GainParameters(nPorts))
	vswrN := len(ports.VSWRParameters(nPorts))

	expected := 0
	for _, crit := range crits {
		switch crit.Family() {
		case criteria.FamilyVSWR:
			expected += vswrN
		case criteria.FamilyUnclassified:
		default:
			expected += gainN
		}
	}
	return expected
}
