package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"quarry-hive/internal/model"
	"quarry-hive/internal/scheduler"
	"quarry-hive/internal/utils"
)

type NodeAssignmentController struct {
	nodes     *scheduler.NodeManager
	validator *validator.Validate
}

type Response struct {
	Success       bool        `json:"success"`
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	Message       string      `json:"message,omitempty"`
	CorrelationID string      `json:"correlationId"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewNodeAssignmentController(nodes *scheduler.NodeManager) *NodeAssignmentController {
	return &NodeAssignmentController{
		nodes:     nodes,
		validator: validator.New(),
	}
}

// GetNodeAssignments godoc
// @Summary List node assignments
// @Description Returns split and task counts for all active and shutting-down nodes
// @Tags nodeassignment
// @Produce json
// @Success 200 {array} model.NodeAssignmentInfo
// @Router /v1/nodeassignment [get]
func (nc *NodeAssignmentController) GetNodeAssignments(c *gin.Context) {
	c.JSON(http.StatusOK, nc.nodes.Assignments())
}

// SetBlacklist godoc
// @Summary Replace the scheduling blacklist
// @Description Replaces the set of nodes excluded from future scheduling
// @Tags nodeassignment
// @Accept json
// @Produce json
// @Param request body model.NodeAssignmentBlacklistRequest true "Blacklist request"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /v1/nodeassignment/blacklist [post]
func (nc *NodeAssignmentController) SetBlacklist(c *gin.Context) {
	var req model.NodeAssignmentBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := utils.NewValidationError("Invalid request body", err.Error())
		nc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	if err := nc.validator.Struct(&req); err != nil {
		appErr := utils.NewValidationError("Validation failed", err.Error())
		nc.sendError(c, utils.GetErrorStatus(appErr), appErr.Code, appErr.Message)
		return
	}

	nc.nodes.SetBlacklist(req.BlacklistedNodes)

	c.JSON(http.StatusOK, Response{
		Success:       true,
		Data:          nc.nodes.Blacklist(),
		CorrelationID: nc.getCorrelationID(c),
	})
}

func (nc *NodeAssignmentController) sendError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
		CorrelationID: nc.getCorrelationID(c),
	})
}

func (nc *NodeAssignmentController) getCorrelationID(c *gin.Context) string {
	if correlationID, exists := c.Get("correlation_id"); exists {
		if id, ok := correlationID.(string); ok {
			return id
		}
	}
	return ""
}
