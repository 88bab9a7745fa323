package endpoint

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/pragun3669/DERMIFY/middleware"
	"github.com/pragun3669/DERMIFY/ml"
	"github.com/pragun3669/DERMIFY/util"
)

// Predict godoc
// @Summary      Predict skin condition from image
// @Description  Forward an uploaded skin image to the prediction service and relay its response
// @Tags         Prediction
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionToken
// @Param        file formData file true "Skin image"
// @Param        patientName formData string false "Patient name"
// @Param        email formData string false "Patient email"
// @Success      200 {object} map[string]interface{} "Prediction service response"
// @Failure      400 {object} util.APIResponse "No image file provided"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Prediction service unavailable"
// @Router       /api/predict [post]
func Predict(clf ml.Classifier, maxUploadBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "No image file provided",
				Err: err,
			})
			return
		}

		if maxUploadBytes > 0 && fileHeader.Size > maxUploadBytes {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "Image exceeds upload size limit",
				Err: fmt.Errorf("file size %d exceeds limit %d", fileHeader.Size, maxUploadBytes),
			})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to read uploaded file", Err: err})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to read uploaded file", Err: err})
			return
		}

		input := ml.ImageInput{
			FileName:    fileHeader.Filename,
			Data:        data,
			PatientName: c.PostForm("patientName"),
			Email:       c.PostForm("email"),
		}

		body, err := clf.ClassifyImage(c.Request.Context(), input)
		if err != nil {
			respondClassifierError(c, err)
			return
		}

		relayUpstreamJSON(c, body)
	}
}

type SymptomPredictRequest struct {
	BodyPart string   `json:"body_part" binding:"required" example:"arm"`
	Symptoms []string `json:"symptoms" binding:"required" example:"itching,redness"`
}

// PredictSymptoms godoc
// @Summary      Predict skin condition from symptoms
// @Description  Forward a symptom checklist to the prediction service and relay its response
// @Tags         Prediction
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body SymptomPredictRequest true "Symptom checklist"
// @Success      200 {object} map[string]interface{} "Prediction service response"
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Failure      500 {object} util.APIResponse "Prediction service unavailable"
// @Router       /api/predict-symptoms [post]
func PredictSymptoms(clf ml.Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SymptomPredictRequest
		if !bindJSONOrRespond(c, &req, "Invalid request payload") {
			return
		}

		input := ml.SymptomInput{BodyPart: req.BodyPart, Symptoms: req.Symptoms}

		body, err := clf.ClassifySymptoms(c.Request.Context(), input)
		if err != nil {
			respondClassifierError(c, err)
			return
		}

		relayUpstreamJSON(c, body)
	}
}

func respondClassifierError(c *gin.Context, err error) {
	if errors.Is(err, ml.ErrUpstream) {
		if userID, ok := middleware.GetUserID(c); ok {
			util.LogSecurityEvent(util.SecurityEvent{
				EventType: util.EventSuspiciousActivity,
				UserID:    fmt.Sprintf("%d", userID),
				IP:        c.ClientIP(),
				Message:   fmt.Sprintf("Prediction service failure: %v", err),
			})
		}
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Prediction service unavailable, please try again later",
			Err: err,
		})
		return
	}
	util.CallServerError(c, util.APIErrorParams{Msg: "Prediction failed", Err: err})
}

// relayUpstreamJSON writes the prediction service body through unchanged so
// the client sees exactly the fields the model produced.
func relayUpstreamJSON(c *gin.Context, body []byte) {
	c.Data(200, "application/json", body)
}
