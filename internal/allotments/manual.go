package allotments

import "github.com/wenwu/saas-platform/pricing-service/internal/models"

// manualAllotments is the hand-curated fallback derived from the vendor's
// documentation, used when scraping fails or on first-run initialization.
// Immutable configuration data; never mutated at runtime.
var manualAllotments = []models.Allotment{
	{ParentProduct: "Infrastructure Pro", AllottedProduct: "Custom Metrics", QuantityPerParent: 100, AllottedUnit: "custom metrics", PerParentUnit: "host", Frequency: models.FrequencyMonth},
	{ParentProduct: "Infrastructure Pro", AllottedProduct: "Ingested Custom Metrics", QuantityPerParent: 100, AllottedUnit: "ingested custom metrics", PerParentUnit: "host", Frequency: models.FrequencyMonth},
	{ParentProduct: "Infrastructure Enterprise", AllottedProduct: "Custom Metrics", QuantityPerParent: 200, AllottedUnit: "custom metrics", PerParentUnit: "host", Frequency: models.FrequencyMonth},
	{ParentProduct: "Infrastructure Enterprise", AllottedProduct: "Ingested Custom Metrics", QuantityPerParent: 200, AllottedUnit: "ingested custom metrics", PerParentUnit: "host", Frequency: models.FrequencyMonth},
	{ParentProduct: "APM", AllottedProduct: "Indexed Spans", QuantityPerParent: 1000000, AllottedUnit: "indexed spans", PerParentUnit: "APM host", Frequency: models.FrequencyMonth},
	{ParentProduct: "APM", AllottedProduct: "Ingested Spans", QuantityPerParent: 150, AllottedUnit: "GB", PerParentUnit: "APM host", Frequency: models.FrequencyMonth},
	{ParentProduct: "APM", AllottedProduct: "Profiled Hosts", QuantityPerParent: 1, AllottedUnit: "profiled host", PerParentUnit: "APM host", Frequency: models.FrequencyMonth},
	{ParentProduct: "APM", AllottedProduct: "Profiled Containers", QuantityPerParent: 4, AllottedUnit: "profiled containers", PerParentUnit: "APM host", Frequency: models.FrequencyHour},
	{ParentProduct: "APM Enterprise", AllottedProduct: "Indexed Spans", QuantityPerParent: 1000000, AllottedUnit: "indexed spans", PerParentUnit: "APM host", Frequency: models.FrequencyMonth},
	{ParentProduct: "APM Enterprise", AllottedProduct: "Ingested Spans", QuantityPerParent: 150, AllottedUnit: "GB", PerParentUnit: "APM host", Frequency: models.FrequencyMonth},
	{ParentProduct: "Database Monitoring", AllottedProduct: "Normalized Queries", QuantityPerParent: 200, AllottedUnit: "queries", PerParentUnit: "database host", Frequency: models.FrequencyMonth},
	{ParentProduct: "Continuous Profiler", AllottedProduct: "Profiled Containers", QuantityPerParent: 4, AllottedUnit: "profiled containers", PerParentUnit: "profiled host", Frequency: models.FrequencyHour},
	{ParentProduct: "Cloud Security Management Pro", AllottedProduct: "CSM Pro Containers", QuantityPerParent: 5, AllottedUnit: "containers", PerParentUnit: "CSM host", Frequency: models.FrequencyHour},
	{ParentProduct: "Cloud Security Management Pro", AllottedProduct: "Workflow Automation", QuantityPerParent: 5, AllottedUnit: "executions", PerParentUnit: "CSM host", Frequency: models.FrequencyMonth},
	{ParentProduct: "Cloud Security Management Enterprise", AllottedProduct: "CSM Enterprise Containers", QuantityPerParent: 20, AllottedUnit: "containers", PerParentUnit: "CSM host", Frequency: models.FrequencyHour},
	{ParentProduct: "Cloud Security Management Enterprise", AllottedProduct: "Workflow Automation", QuantityPerParent: 20, AllottedUnit: "executions", PerParentUnit: "CSM host", Frequency: models.FrequencyMonth},
	{ParentProduct: "Serverless Workload Monitoring - Functions", AllottedProduct: "Custom Metrics", QuantityPerParent: 5, AllottedUnit: "custom metrics", PerParentUnit: "function", Frequency: models.FrequencyMonth},
	{ParentProduct: "Serverless Workload Monitoring - Apps", AllottedProduct: "Custom Metrics", QuantityPerParent: 20, AllottedUnit: "custom metrics", PerParentUnit: "instance app", Frequency: models.FrequencyMonth},
	{ParentProduct: "Pipeline Visibility", AllottedProduct: "Pipeline Spans", QuantityPerParent: 400000, AllottedUnit: "spans", PerParentUnit: "committer", Frequency: models.FrequencyMonth},
	{ParentProduct: "Test Optimization", AllottedProduct: "Test Spans", QuantityPerParent: 1000000, AllottedUnit: "spans", PerParentUnit: "committer", Frequency: models.FrequencyMonth},
}

// ManualAllotments returns a copy of the curated fallback set.
func ManualAllotments() []models.Allotment {
	out := make([]models.Allotment, len(manualAllotments))
	copy(out, manualAllotments)
	return out
}
