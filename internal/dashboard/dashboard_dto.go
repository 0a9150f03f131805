package dashboard

type SummaryRequest struct {
	Year int `form:"year" binding:"omitempty,min=1900,max=9999"`
}
