package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"quarry-hive/internal/model"
	"quarry-hive/internal/repository"
	"quarry-hive/internal/service"
	"quarry-hive/internal/utils"
)

type TableController struct {
	tables    repository.TableRepository
	splits    service.SplitService
	validator *validator.Validate
}

// CreateTableRequest is the body of a table registration.
type CreateTableRequest struct {
	Schema        string            `json:"schema" validate:"required"`
	Name          string            `json:"name" validate:"required"`
	Storage       model.StorageKind `json:"storage" validate:"omitempty,oneof=hdfs s3"`
	Location      string            `json:"location" validate:"required"`
	Columns       []model.Column    `json:"columns" validate:"required,min=1,dive"`
	BucketColumns []string          `json:"bucketColumns,omitempty"`
	BucketCount   int               `json:"bucketCount,omitempty" validate:"omitempty,min=1"`
}

func NewTableController(tables repository.TableRepository, splits service.SplitService) *TableController {
	return &TableController{
		tables:    tables,
		splits:    splits,
		validator: validator.New(),
	}
}

// CreateTable godoc
// @Summary Register a table in the metastore
// @Tags tables
// @Accept json
// @Produce json
// @Param request body CreateTableRequest true "Create table request"
// @Success 201 {object} Response{data=model.Table}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/tables [post]
func (tc *TableController) CreateTable(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := utils.NewValidationError("Invalid request body", err.Error())
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	if err := tc.validator.Struct(&req); err != nil {
		appErr := utils.NewValidationError("Validation failed", err.Error())
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	if appErr := validateBucketing(&req); appErr != nil {
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	if req.Storage == "" {
		req.Storage = model.StorageKindHDFS
	}

	if _, err := tc.tables.GetByName(c.Request.Context(), req.Schema, req.Name); err == nil {
		appErr := utils.NewConflictError("table", "Table with this name already exists")
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	table := &model.Table{
		Schema:        req.Schema,
		Name:          req.Name,
		Storage:       req.Storage,
		Location:      req.Location,
		Columns:       req.Columns,
		BucketColumns: req.BucketColumns,
		BucketCount:   req.BucketCount,
	}
	if err := tc.tables.Create(c.Request.Context(), table); err != nil {
		appErr := utils.NewDatabaseError(err, "Failed to create table")
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success:       true,
		Data:          table,
		CorrelationID: tc.getCorrelationID(c),
	})
}

// GetTables godoc
// @Summary List registered tables
// @Tags tables
// @Produce json
// @Param schema query string false "Schema filter"
// @Success 200 {object} Response
// @Router /api/v1/tables [get]
func (tc *TableController) GetTables(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	tables, total, err := tc.tables.GetAll(c.Request.Context(), c.Query("schema"), limit, offset)
	if err != nil {
		appErr := utils.NewDatabaseError(err, "Failed to list tables")
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"tables": tables,
			"total":  total,
		},
		CorrelationID: tc.getCorrelationID(c),
	})
}

// GetTable godoc
// @Summary Get a table by ID
// @Tags tables
// @Produce json
// @Param id path string true "Table UUID"
// @Success 200 {object} Response{data=model.Table}
// @Failure 404 {object} Response
// @Router /api/v1/tables/{id} [get]
func (tc *TableController) GetTable(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		tc.sendError(c, http.StatusBadRequest, utils.ErrCodeInvalidUUID, "Invalid table ID")
		return
	}

	table, err := tc.tables.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			appErr := utils.NewNotFoundError("table")
			tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
			return
		}
		appErr := utils.NewDatabaseError(err, "Failed to get table")
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          table,
		CorrelationID: tc.getCorrelationID(c),
	})
}

// DeleteTable godoc
// @Summary Remove a table from the metastore
// @Tags tables
// @Produce json
// @Param id path string true "Table UUID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/tables/{id} [delete]
func (tc *TableController) DeleteTable(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		tc.sendError(c, http.StatusBadRequest, utils.ErrCodeInvalidUUID, "Invalid table ID")
		return
	}

	if err := tc.tables.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			appErr := utils.NewNotFoundError("table")
			tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
			return
		}
		appErr := utils.NewDatabaseError(err, "Failed to delete table")
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Message:       "Table deleted",
		CorrelationID: tc.getCorrelationID(c),
	})
}

// DiscoverSplits godoc
// @Summary Discover a table's data splits
// @Description Walks the table location, applies bucket pruning when the
// bindings pin every bucket column, and assigns splits to worker nodes
// @Tags tables
// @Accept json
// @Produce json
// @Param request body service.DiscoverSplitsRequest true "Discover splits request"
// @Success 200 {object} Response{data=service.DiscoverSplitsResponse}
// @Failure 404 {object} Response
// @Router /api/v1/splits/discover [post]
func (tc *TableController) DiscoverSplits(c *gin.Context) {
	var req service.DiscoverSplitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := utils.NewValidationError("Invalid request body", err.Error())
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	if err := tc.validator.Struct(&req); err != nil {
		appErr := utils.NewValidationError("Validation failed", err.Error())
		tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	normalizeBindings(req.Bindings)

	resp, err := tc.splits.DiscoverSplits(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			appErr := utils.NewNotFoundError("table")
			tc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
			return
		}
		tc.sendError(c, http.StatusInternalServerError, utils.ErrCodeWalkFailed, err.Error())
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          resp,
		CorrelationID: tc.getCorrelationID(c),
	})
}

// validateBucketing rejects bucketing declarations that can never
// apply: bucket columns that are not in the schema, or a bucket count
// without columns.
func validateBucketing(req *CreateTableRequest) *utils.AppError {
	if len(req.BucketColumns) == 0 {
		return nil
	}
	if req.BucketCount <= 0 {
		return utils.NewValidationError("Bucketed table requires a positive bucketCount", "")
	}
	types := make(map[string]string, len(req.Columns))
	for _, col := range req.Columns {
		types[col.Name] = col.Type
	}
	for _, name := range req.BucketColumns {
		if _, ok := types[name]; !ok {
			return utils.NewValidationError("Bucket column not in schema: "+name, "")
		}
	}
	return nil
}

// normalizeBindings coerces JSON numbers to the int64 carrier the
// bucket calculator expects. Non-integral numbers are left as-is and
// will make bucketing inapplicable downstream.
func normalizeBindings(bindings map[string]any) {
	for name, value := range bindings {
		if f, ok := value.(float64); ok && f == float64(int64(f)) {
			bindings[name] = int64(f)
		}
	}
}

func (tc *TableController) sendError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
		CorrelationID: tc.getCorrelationID(c),
	})
}

func (tc *TableController) getCorrelationID(c *gin.Context) string {
	if correlationID, exists := c.Get("correlation_id"); exists {
		if id, ok := correlationID.(string); ok {
			return id
		}
	}
	return ""
}
