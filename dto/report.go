package dto

import (
	"time"

	"daily_report_app_go/models"
)

type VisitRecordRequest struct {
	CustomerID   uint   `json:"customer_id" validate:"required" label:"顧客"`
	VisitContent string `json:"visit_content" validate:"required,notblank,max=1000,nomarkup" label:"訪問内容"`
	VisitedAt    string `json:"visited_at" validate:"hhmm" label:"訪問時刻"`
}

// ReportRequest is the body of report create and update. Status must be
// DRAFT or SUBMITTED.
type ReportRequest struct {
	ReportDate   string               `json:"report_date" validate:"datefmt,notfuture" label:"報告日"`
	Problem      *string              `json:"problem,omitempty" validate:"omitempty,max=2000,nomarkup" label:"課題・相談"`
	Plan         *string              `json:"plan,omitempty" validate:"omitempty,max=2000,nomarkup" label:"明日やること"`
	Status       models.ReportStatus  `json:"status" validate:"required" label:"ステータス"`
	VisitRecords []VisitRecordRequest `json:"visit_records" validate:"dive"`
}

type PersonRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CustomerRef struct {
	ID          uint   `json:"id"`
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name,omitempty"`
}

type VisitRecordResponse struct {
	ID           uint        `json:"id"`
	Customer     CustomerRef `json:"customer"`
	VisitContent string      `json:"visit_content"`
	VisitedAt    string      `json:"visited_at"`
	VisitOrder   int         `json:"visit_order"`
}

type CommentResponse struct {
	ID        uint                 `json:"id"`
	Target    models.CommentTarget `json:"target"`
	Manager   PersonRef            `json:"manager"`
	Content   string               `json:"content"`
	CreatedAt time.Time            `json:"created_at"`
}

type ReportListItem struct {
	ID          uint                `json:"id"`
	ReportDate  string              `json:"report_date"`
	Salesperson PersonRef           `json:"salesperson"`
	VisitCount  int                 `json:"visit_count"`
	Status      models.ReportStatus `json:"status"`
	SubmittedAt *time.Time          `json:"submitted_at"`
}

type ReportDetail struct {
	ID           uint                  `json:"id"`
	ReportDate   string                `json:"report_date"`
	Salesperson  PersonRef             `json:"salesperson"`
	Problem      *string               `json:"problem"`
	Plan         *string               `json:"plan"`
	Status       models.ReportStatus   `json:"status"`
	SubmittedAt  *time.Time            `json:"submitted_at"`
	VisitRecords []VisitRecordResponse `json:"visit_records"`
	Comments     []CommentResponse     `json:"comments"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type ReportSubmitResponse struct {
	ID          uint                `json:"id"`
	Status      models.ReportStatus `json:"status"`
	SubmittedAt *time.Time          `json:"submitted_at"`
}

type ReportReviewResponse struct {
	ID     uint                `json:"id"`
	Status models.ReportStatus `json:"status"`
}

type CommentRequest struct {
	Target  models.CommentTarget `json:"target" validate:"required" label:"コメント対象"`
	Content string               `json:"content" validate:"required,notblank,max=1000,nomarkup" label:"コメント"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Target:    c.Target,
		Manager:   PersonRef{ID: c.Manager.ID, Name: c.Manager.Name},
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func NewReportListItem(r *models.DailyReport) ReportListItem {
	return ReportListItem{
		ID:          r.ID,
		ReportDate:  r.DateString(),
		Salesperson: PersonRef{ID: r.Salesperson.ID, Name: r.Salesperson.Name},
		VisitCount:  len(r.VisitRecords),
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,
	}
}

// NewReportDetail expects visit records (with customers) and comments
// (with managers) to be preloaded.
func NewReportDetail(r *models.DailyReport) ReportDetail {
	visits := make([]VisitRecordResponse, 0, len(r.VisitRecords))
	for i := range r.VisitRecords {
		v := &r.VisitRecords[i]
		visits = append(visits, VisitRecordResponse{
			ID: v.ID,
			Customer: CustomerRef{
				ID:          v.Customer.ID,
				CompanyName: v.Customer.CompanyName,
				ContactName: v.Customer.ContactName,
			},
			VisitContent: v.VisitContent,
			VisitedAt:    v.TimeString(),
			VisitOrder:   v.VisitOrder,
		})
	}
	comments := make([]CommentResponse, 0, len(r.Comments))
	for i := range r.Comments {
		comments = append(comments, NewCommentResponse(&r.Comments[i]))
	}
	return ReportDetail{
		ID:           r.ID,
		ReportDate:   r.DateString(),
		Salesperson:  PersonRef{ID: r.Salesperson.ID, Name: r.Salesperson.Name},
		Problem:      r.Problem,
		Plan:         r.Plan,
		Status:       r.Status,
		SubmittedAt:  r.SubmittedAt,
		VisitRecords: visits,
		Comments:     comments,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
