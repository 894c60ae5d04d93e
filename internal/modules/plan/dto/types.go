package dto

type ItemOutput struct {
	Index int
	Ref   string
	Path  string
}

type PlanOutput struct {
	Items []ItemOutput
}

type SummaryOutput struct {
	Path  string
	Count int
	First string
	Last  string
}
