package endpoint

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pragun3669/DERMIFY/model"
	"github.com/pragun3669/DERMIFY/util"
	"gorm.io/gorm"
)

type DiseaseInfoResponse struct {
	Name        string   `json:"name" example:"Eczema"`
	Description string   `json:"description" example:"A condition that makes skin red and itchy"`
	Images      []string `json:"images"`
	Prevention  []string `json:"prevention"`
	Treatment   []string `json:"treatment"`
	Diet        []string `json:"diet"`
}

type DiseaseSummary struct {
	Name        string `json:"name" example:"Eczema"`
	Description string `json:"description" example:"A condition that makes skin red and itchy"`
}

func diseaseInfoFromRecord(record model.Disease) DiseaseInfoResponse {
	return DiseaseInfoResponse{
		Name:        record.Name,
		Description: record.Description,
		Images:      record.Image,
		Prevention:  record.Prevention,
		Treatment:   record.Treatment,
		Diet:        record.Diet,
	}
}

// resolveDisease maps a requested name to a stored record. Resolution order:
// exact stored name, then classifier label alias, then normalized name.
func resolveDisease(db *gorm.DB, name string) (model.Disease, error) {
	record, err := util.GetDiseaseByName(db, name)
	if err == nil {
		return record, nil
	}
	if err != gorm.ErrRecordNotFound {
		return model.Disease{}, err
	}

	var alias model.DiseaseAlias
	if aerr := db.Where("label = ?", name).First(&alias).Error; aerr == nil {
		record, err = util.GetDiseaseByName(db, alias.DiseaseName)
		if err == nil {
			return record, nil
		}
		if err != gorm.ErrRecordNotFound {
			return model.Disease{}, err
		}
	} else if aerr != gorm.ErrRecordNotFound {
		return model.Disease{}, aerr
	}

	normalized := util.NormalizeName(name)
	if normalized != name {
		record, err = util.GetDiseaseByName(db, normalized)
		if err == nil {
			return record, nil
		}
	}
	return model.Disease{}, gorm.ErrRecordNotFound
}

// GetDiseaseInfo godoc
// @Summary      Get disease information
// @Description  Fetch the stored record for a disease by name or classifier label
// @Tags         Disease
// @Produce      json
// @Param        diseaseName path string true "Disease name or classifier label"
// @Success      200 {object} util.APIResponse{data=DiseaseInfoResponse} "Disease info"
// @Failure      404 {object} util.APIResponse "Disease not found"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/disease-info/{diseaseName} [get]
func GetDiseaseInfo(c *gin.Context) {
	diseaseName := c.Param("diseaseName")
	if diseaseName == "" {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Disease name is required",
			Err: fmt.Errorf("empty disease name"),
		})
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	record, err := resolveDisease(db, diseaseName)
	if err == gorm.ErrRecordNotFound {
		util.CallErrorNotFound(c, util.APIErrorParams{
			Msg: "Disease not found",
			Err: fmt.Errorf("no record for %q", diseaseName),
		})
		return
	}
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database error", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Disease info fetched",
		Data: diseaseInfoFromRecord(record),
	})
}

// ListDiseases godoc
// @Summary      List diseases
// @Description  List disease records with name and description
// @Tags         Disease
// @Produce      json
// @Param        limit query int false "Limit number of results" default(100)
// @Param        offset query int false "Offset for pagination" default(0)
// @Success      200 {object} util.APIResponse{data=[]DiseaseSummary} "Disease list"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /api/diseases [get]
func ListDiseases(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	var records []model.Disease
	if err := db.Order("name asc").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to list diseases", Err: err})
		return
	}

	summaries := make([]DiseaseSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, DiseaseSummary{Name: record.Name, Description: record.Description})
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Diseases fetched",
		Data: summaries,
	})
}
