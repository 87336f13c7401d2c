package compliance

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rf-compliance/core/criteria"
	"rf-compliance/core/device"
	"rf-compliance/core/rfnet"
	"rf-compliance/core/sparam"
	"rf-compliance/internal/errors"
)

// Evaluator orchestrates the metric calculator and port-role resolution to
// produce one Result per (criterion, applicable S-parameter) pair.
type Evaluator struct {
	calc *sparam.Calculator
	log  *zap.Logger
}

// NewEvaluator returns an evaluator logging through the given logger.
// A nil logger disables logging.
func NewEvaluator(log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{
		calc: sparam.NewCalculator(),
		log:  log,
	}
}

// Evaluate checks a measurement's network against every criterion.
//
// Each criterion fans out across the S-parameters its family applies to:
// gain-range, flatness and OOB criteria across the port configuration's
// gain parameters, VSWR criteria across its reflection parameters.
// Unclassified criteria produce zero results by design. A metric failure
// for one label (malformed label, port beyond the network) skips only that
// label's result; it never aborts the evaluation.
//
// Operational band bounds are in GHz.
func (e *Evaluator) Evaluate(
	measurementID uuid.UUID,
	network *rfnet.Network,
	ports device.PortConfig,
	crits []*criteria.Criterion,
	opFreqMinGHz, opFreqMaxGHz float64,
) []Result {
	nPorts := network.NPorts()
	gainParams := ports.GainParameters(nPorts)
	vswrParams := ports.VSWRParameters(nPorts)

	var results []Result
	for _, crit := range crits {
		results = append(results, e.evaluateCriterion(
			measurementID, network, crit,
			opFreqMinGHz, opFreqMaxGHz,
			gainParams, vswrParams,
		)...)
	}
	return results
}

func (e *Evaluator) evaluateCriterion(
	measurementID uuid.UUID,
	network *rfnet.Network,
	crit *criteria.Criterion,
	opMinGHz, opMaxGHz float64,
	gainParams, vswrParams []string,
) []Result {
	var results []Result

	switch crit.Family() {
	case criteria.FamilyGainRange:
		for _, label := range gainParams {
			r, err := e.gainRangeResult(measurementID, network, crit, opMinGHz, opMaxGHz, label)
			if e.skip(crit, label, err) {
				continue
			}
			results = append(results, r)
		}

	case criteria.FamilyFlatness:
		for _, label := range gainParams {
			r, err := e.flatnessResult(measurementID, network, crit, opMinGHz, opMaxGHz, label)
			if e.skip(crit, label, err) {
				continue
			}
			results = append(results, r)
		}

	case criteria.FamilyVSWR:
		for _, label := range vswrParams {
			r, err := e.vswrResult(measurementID, network, crit, opMinGHz, opMaxGHz, label)
			if e.skip(crit, label, err) {
				continue
			}
			results = append(results, r)
		}

	case criteria.FamilyOOB:
		for _, label := range gainParams {
			r, err := e.oobResult(measurementID, network, crit, opMinGHz, opMaxGHz, label)
			if e.skip(crit, label, err) {
				continue
			}
			results = append(results, r)
		}

	case criteria.FamilyUnclassified:
		// Criteria for test types this engine does not model are
		// intentionally ignored.
		e.log.Debug("skipping unclassified criterion",
			zap.String("criterion", crit.Name),
			zap.String("criterion_id", crit.ID.String()))
	}

	return results
}

// gainRangeResult checks the windowed gain extremes against a range
// criterion. Both the minimum and the maximum must individually satisfy
// the bound; the reported value is the maximum.
func (e *Evaluator) gainRangeResult(
	measurementID uuid.UUID, network *rfnet.Network, crit *criteria.Criterion,
	opMinGHz, opMaxGHz float64, label string,
) (Result, error) {
	minGain, maxGain, err := e.calc.GainRange(network, opMinGHz, opMaxGHz, label)
	if err != nil {
		return Result{}, err
	}

	passed := crit.Evaluate(minGain) && crit.Evaluate(maxGain)
	return newResult(measurementID, crit.ID, label, maxGain, passed), nil
}

func (e *Evaluator) flatnessResult(
	measurementID uuid.UUID, network *rfnet.Network, crit *criteria.Criterion,
	opMinGHz, opMaxGHz float64, label string,
) (Result, error) {
	flatness, err := e.calc.Flatness(network, opMinGHz, opMaxGHz, label)
	if err != nil {
		return Result{}, err
	}
	return newResult(measurementID, crit.ID, label, flatness, crit.Evaluate(flatness)), nil
}

func (e *Evaluator) vswrResult(
	measurementID uuid.UUID, network *rfnet.Network, crit *criteria.Criterion,
	opMinGHz, opMaxGHz float64, label string,
) (Result, error) {
	port, _, err := sparam.ParseLabel(label)
	if err != nil {
		return Result{}, err
	}

	vswr, err := e.calc.WorstVSWR(network, port, opMinGHz, opMaxGHz)
	if err != nil {
		return Result{}, err
	}
	return newResult(measurementID, crit.ID, label, vswr, crit.Evaluate(vswr)), nil
}

// oobResult checks worst-case rejection over the criterion's own band,
// referenced to the lowest in-band gain over the operational band. A
// criterion without a lower bound fails closed: rejection requirements
// must never silently pass.
func (e *Evaluator) oobResult(
	measurementID uuid.UUID, network *rfnet.Network, crit *criteria.Criterion,
	opMinGHz, opMaxGHz float64, label string,
) (Result, error) {
	band := crit.Band
	rejection, err := e.calc.OOBRejection(network, band.MinGHz, band.MaxGHz, opMinGHz, opMaxGHz, label)
	if err != nil {
		return Result{}, err
	}

	passed := false
	if crit.Lower != nil {
		passed = rejection >= *crit.Lower
	}
	return newResult(measurementID, crit.ID, label, rejection, passed), nil
}

// skip reports whether a per-label error should drop that label's result.
// Format and port errors are expected when the port configuration names
// ports the measured network does not have and are logged quietly; any
// other failure is surfaced loudly but still only costs that one label.
func (e *Evaluator) skip(crit *criteria.Criterion, label string, err error) bool {
	if err == nil {
		return false
	}
	if errors.IsSkippable(err) {
		e.log.Debug("skipping S-parameter for criterion",
			zap.String("criterion", crit.Name),
			zap.String("s_parameter", label),
			zap.Error(err))
	} else {
		e.log.Error("metric calculation failed",
			zap.String("criterion", crit.Name),
			zap.String("s_parameter", label),
			zap.Error(err))
	}
	return true
}
