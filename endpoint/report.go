package endpoint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pragun3669/DERMIFY/middleware"
	"github.com/pragun3669/DERMIFY/model"
	"github.com/pragun3669/DERMIFY/pdf"
	"github.com/pragun3669/DERMIFY/util"
	"gorm.io/gorm"
)

type GeneratePDFRequest struct {
	PredictedDisease string   `json:"predicted_disease" example:"Eczema"`
	Username         string   `json:"username" example:"John Doe"`
	Email            string   `json:"email" example:"john@example.com"`
	BodyPart         string   `json:"body_part,omitempty" example:"arm"`
	Symptoms         []string `json:"symptoms,omitempty"`
}

// GeneratePDF godoc
// @Summary      Generate a prediction report PDF
// @Description  Render the predicted disease record into a downloadable PDF report
// @Tags         Report
// @Accept       json
// @Produce      application/pdf
// @Security     SessionToken
// @Param        request body GeneratePDFRequest true "Report parameters"
// @Success      200 {file} binary "PDF report"
// @Failure      400 {object} util.APIResponse "Predicted disease is required"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      404 {object} util.APIResponse "Disease not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/generate-pdf [post]
func GeneratePDF(imageRoot, reportDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GeneratePDFRequest
		if !bindJSONOrRespond(c, &req, "Invalid request payload") {
			return
		}

		if strings.TrimSpace(req.PredictedDisease) == "" {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Predicted disease is required",
				Err: fmt.Errorf("empty predicted_disease"),
			})
			return
		}

		db, ok := getDBOrRespond(c)
		if !ok {
			return
		}

		record, err := resolveDisease(db, req.PredictedDisease)
		if err == gorm.ErrRecordNotFound {
			util.CallErrorNotFound(c, util.APIErrorParams{
				Msg: "Disease not found",
				Err: fmt.Errorf("no record for %q", req.PredictedDisease),
			})
			return
		}
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
			return
		}

		patientName := strings.TrimSpace(req.Username)
		if patientName == "" {
			patientName = "Unknown"
		}

		data := pdf.ReportData{
			PatientName: patientName,
			DiseaseName: record.Name,
			Description: record.Description,
			Prevention:  record.Prevention,
			Treatment:   record.Treatment,
			Diet:        record.Diet,
			Images:      record.Image,
			BodyPart:    req.BodyPart,
			Symptoms:    req.Symptoms,
		}

		var buf bytes.Buffer
		builder := pdf.NewBuilder(pdf.Options{ImageRoot: imageRoot, Compress: true})
		if err := builder.Render(data, &buf); err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to generate report", Err: err})
			return
		}

		filename := pdf.AttachmentFilename(record.Name)
		persistReport(db, c, record.Name, req.Email, filename, reportDir, buf.Bytes())

		userID, _ := middleware.GetUserID(c)
		util.LogReportGenerated(userID, req.Email, c.ClientIP(), record.Name)

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(200, "application/pdf", buf.Bytes())
	}
}

// persistReport writes the rendered PDF to disk and records a Report row.
// Both are best-effort: a storage failure never blocks the download.
func persistReport(db *gorm.DB, c *gin.Context, diseaseName, email, filename, reportDir string, content []byte) {
	userID, _ := middleware.GetUserID(c)

	reportPath := ""
	if reportDir != "" {
		if err := os.MkdirAll(reportDir, 0o755); err == nil {
			name := fmt.Sprintf("%d_%d_%s", userID, time.Now().UnixNano(), filename)
			path := filepath.Join(reportDir, name)
			if err := os.WriteFile(path, content, 0o644); err == nil {
				reportPath = path
			}
		}
	}

	report := model.Report{
		UserID:     userID,
		Email:      email,
		Prediction: diseaseName,
		ReportPath: reportPath,
	}
	if err := db.Create(&report).Error; err != nil {
		util.LogSecurityEvent(util.SecurityEvent{
			EventType: util.EventSuspiciousActivity,
			UserID:    fmt.Sprintf("%d", userID),
			Email:     email,
			IP:        c.ClientIP(),
			Message:   fmt.Sprintf("Failed to record report row: %v", err),
		})
	}
}

type ReportSummary struct {
	ID         uint      `json:"id" example:"1"`
	Prediction string    `json:"prediction" example:"Eczema"`
	Email      string    `json:"email" example:"john@example.com"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListReports godoc
// @Summary      List generated reports
// @Description  List the caller's generated reports, newest first
// @Tags         Report
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]ReportSummary} "Report list"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/reports [get]
func ListReports(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Unauthorized",
			Err: fmt.Errorf("missing user id"),
		})
		return
	}

	var reports []model.Report
	if err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&reports).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list reports", Err: err})
		return
	}

	summaries := make([]ReportSummary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, ReportSummary{
			ID:         r.ID,
			Prediction: r.Prediction,
			Email:      r.Email,
			CreatedAt:  r.CreatedAt,
		})
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reports fetched",
		Data: summaries,
	})
}

type ReportRosterEntry struct {
	ID         uint      `json:"id" example:"1"`
	UserID     uint      `json:"user_id" example:"7"`
	Prediction string    `json:"prediction" example:"Eczema"`
	Email      string    `json:"email" example:"john@example.com"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListAllReports godoc
// @Summary      List reports across all patients
// @Description  Doctor-only roster of every generated report, newest first
// @Tags         Report
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse{data=[]ReportRosterEntry} "Report roster"
// @Failure      401 {object} util.APIResponse "Insufficient permissions"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/doctor/reports [get]
func ListAllReports(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var reports []model.Report
	if err := db.Order("created_at desc").Find(&reports).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list reports", Err: err})
		return
	}

	entries := make([]ReportRosterEntry, 0, len(reports))
	for _, r := range reports {
		entries = append(entries, ReportRosterEntry{
			ID:         r.ID,
			UserID:     r.UserID,
			Prediction: r.Prediction,
			Email:      r.Email,
			CreatedAt:  r.CreatedAt,
		})
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reports fetched",
		Data: entries,
	})
}
