package schemas

// -- Closed Enumeration Domains --
// Every categorical attribute a generator samples must land inside one of
// these sets. The assembler treats anything else as an internal defect, so
// the domains live here next to the wire types they constrain.

// Env classifies the deployment environment of a dataset or system.
type Env string

const (
	EnvDevelopment Env = "DEVELOPMENT_ENV"
	EnvPersonal    Env = "PERSONAL_ENV"
	EnvProduction  Env = "PRODUCTION_ENV"
	EnvStaging     Env = "STAGING_ENV"
	EnvTesting     Env = "TESTING_ENV"
	EnvUnknown     Env = "UNKNOWN_ENV"
)

// Envs lists every valid Env value in wire order.
func Envs() []Env {
	return []Env{EnvDevelopment, EnvPersonal, EnvProduction, EnvStaging, EnvTesting, EnvUnknown}
}

// Valid reports whether the value belongs to the Env domain.
func (e Env) Valid() bool {
	switch e {
	case EnvDevelopment, EnvPersonal, EnvProduction, EnvStaging, EnvTesting, EnvUnknown:
		return true
	}
	return false
}

// Criticality is the ordinal business-importance class of a system.
type Criticality string

const (
	CriticalityNone     Criticality = "NOT_CRITICAL"
	CriticalityS0Outage Criticality = "CRITICAL_CAN_CAUSE_S0_OUTAGE"
	CriticalityRunRate  Criticality = "CRITICAL_SIGNIFICANT_RUN_RATE"
	CriticalityOther    Criticality = "CRITICAL_OTHER"
)

// Criticalities lists every valid Criticality value in wire order.
func Criticalities() []Criticality {
	return []Criticality{CriticalityNone, CriticalityS0Outage, CriticalityRunRate, CriticalityOther}
}

// Valid reports whether the value belongs to the Criticality domain.
func (c Criticality) Valid() bool {
	switch c {
	case CriticalityNone, CriticalityS0Outage, CriticalityRunRate, CriticalityOther:
		return true
	}
	return false
}

// Impact grades the consequence for a system when a dataset it processes is
// late or unavailable. It is an attribute of the processing edge, not of the
// dataset.
type Impact string

const (
	ImpactDown             Impact = "DOWN"
	ImpactSeverelyDegraded Impact = "SEVERELY_DEGRADED"
	ImpactDegraded         Impact = "DEGRADED"
	ImpactOpportunityLoss  Impact = "OPPORTUNITY_LOSS"
	ImpactNone             Impact = "NONE"
)

// Impacts lists every valid Impact value in wire order.
func Impacts() []Impact {
	return []Impact{ImpactDown, ImpactSeverelyDegraded, ImpactDegraded, ImpactOpportunityLoss, ImpactNone}
}

// Valid reports whether the value belongs to the Impact domain.
func (i Impact) Valid() bool {
	switch i {
	case ImpactDown, ImpactSeverelyDegraded, ImpactDegraded, ImpactOpportunityLoss, ImpactNone:
		return true
	}
	return false
}

// Freshness is the staleness tolerance of a processing edge: how old the
// dataset may get before the Impact consequence applies.
type Freshness string

const (
	FreshnessImmediate  Freshness = "IMMEDIATE"
	FreshnessDay        Freshness = "DAY"
	FreshnessWeek       Freshness = "WEEK"
	FreshnessEventually Freshness = "EVENTUALLY"
	FreshnessNever      Freshness = "NEVER"
)

// Freshnesses lists every valid Freshness value in wire order.
func Freshnesses() []Freshness {
	return []Freshness{FreshnessImmediate, FreshnessDay, FreshnessWeek, FreshnessEventually, FreshnessNever}
}

// Valid reports whether the value belongs to the Freshness domain.
func (f Freshness) Valid() bool {
	switch f {
	case FreshnessImmediate, FreshnessDay, FreshnessWeek, FreshnessEventually, FreshnessNever:
		return true
	}
	return false
}
