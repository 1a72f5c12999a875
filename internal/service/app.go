package service

type App struct {
	Access     *AccessService
	Lifecycle  *LifecycleService
	Evaluation *EvaluationService
	Summary    *SummaryService
	Dimension  *DimensionService
}

func NewApp(
	access *AccessService,
	lifecycle *LifecycleService,
	evaluation *EvaluationService,
	summary *SummaryService,
	dimension *DimensionService,
) *App {
	return &App{
		Access:     access,
		Lifecycle:  lifecycle,
		Evaluation: evaluation,
		Summary:    summary,
		Dimension:  dimension,
	}
}
