package engine

import (
	"errors"
	"math"

	"github.com/farmsight/engine/internal/types"
)

var ErrInvalidEngineParameters = errors.New("invalid engine parameters")

// ValidateEngineParameters checks a parameter set for values that would make
// the engine's output meaningless. It is called once at startup and before
// persisting a new parameter version, not on the per-request hot path.
func ValidateEngineParameters(params types.EngineParameters) error {
	finite := []struct {
		value float64
		name  string
	}{
		{params.MinLikelihood, "MinLikelihood"},
		{params.MaxGasBudgetPercent, "MaxGasBudgetPercent"},
		{params.TvlPerEstimateUnit, "TvlPerEstimateUnit"},
		{params.FallbackRewardCap, "FallbackRewardCap"},
		{params.EthereumBaseGasCost, "EthereumBaseGasCost"},
		{params.Layer2BaseGasCost, "Layer2BaseGasCost"},
		{params.DiversificationWarningBelow, "DiversificationWarningBelow"},
		{params.HeavyRequirementsMeanMinTxns, "HeavyRequirementsMeanMinTxns"},
		{params.QuickWinMinLikelihood, "QuickWinMinLikelihood"},
		{params.BlueChipMinTvlUSD, "BlueChipMinTvlUSD"},
		{params.HighTvlThreshold, "HighTvlThreshold"},
		{params.HighTvlBoost, "HighTvlBoost"},
		{params.LargeUserBaseBoost, "LargeUserBaseBoost"},
		{params.RegularCadenceMaxDays, "RegularCadenceMaxDays"},
		{params.RegularCadenceBoost, "RegularCadenceBoost"},
		{params.GapProgressWeight, "GapProgressWeight"},
		{params.GapRewardCostWeight, "GapRewardCostWeight"},
	}
	for _, f := range finite {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.Join(ErrInvalidEngineParameters, errors.New(f.name+" must be finite"))
		}
	}

	if params.MinLikelihood < 0 || params.MinLikelihood > 100 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("MinLikelihood must be within [0, 100]"))
	}
	if params.QuickWinMinLikelihood < 0 || params.QuickWinMinLikelihood > 100 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("QuickWinMinLikelihood must be within [0, 100]"))
	}
	if params.MaxGasBudgetPercent < 0 || params.MaxGasBudgetPercent > 1 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("MaxGasBudgetPercent must be within [0, 1]"))
	}
	if params.TvlPerEstimateUnit <= 0 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("TvlPerEstimateUnit must be positive"))
	}
	if params.FallbackRewardCap < 0 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("FallbackRewardCap cannot be negative"))
	}
	if params.EthereumBaseGasCost < 0 || params.Layer2BaseGasCost < 0 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("base gas costs cannot be negative"))
	}
	if params.QuickWinMaxProtocols <= 0 || params.QuickWinMaxActions <= 0 ||
		params.HighValueMaxProtocols <= 0 || params.Layer2MaxProtocols <= 0 ||
		params.BlueChipMaxProtocols <= 0 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("strategy caps must be positive"))
	}
	if len(params.Layer2Chains) == 0 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("Layer2Chains cannot be empty"))
	}
	if params.GapProgressWeight < 0 || params.GapRewardCostWeight < 0 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("gap ranking weights cannot be negative"))
	}
	if params.GapProgressWeight+params.GapRewardCostWeight <= 0 {
		return errors.Join(ErrInvalidEngineParameters, errors.New("gap ranking weights must not both be zero"))
	}

	return nil
}
