package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ntwoods/dealerdocs/internal/application/dealer/usecases"
	"github.com/ntwoods/dealerdocs/internal/domain/dealer"
	"github.com/ntwoods/dealerdocs/internal/domain/upload"
	"github.com/ntwoods/dealerdocs/internal/interfaces/dto"
	"github.com/ntwoods/dealerdocs/internal/interfaces/http/middleware"
	"github.com/ntwoods/dealerdocs/internal/shared/errors"
	"github.com/ntwoods/dealerdocs/internal/shared/logger"
	"github.com/ntwoods/dealerdocs/internal/shared/utils"
)

type DealerHandler struct {
	listUC       ListRecordsExecutor
	submitUC     SubmitDocumentsExecutor
	sessions     SessionErrorHandler
	viewBaseURL  string
	maxFileBytes int64
	logger       logger.Interface
}

func NewDealerHandler(
	listUC ListRecordsExecutor,
	submitUC SubmitDocumentsExecutor,
	sessions SessionErrorHandler,
	viewBaseURL string,
	maxFileBytes int64,
	logger logger.Interface,
) *DealerHandler {
	return &DealerHandler{
		listUC:       listUC,
		submitUC:     submitUC,
		sessions:     sessions,
		viewBaseURL:  viewBaseURL,
		maxFileBytes: maxFileBytes,
		logger:       logger,
	}
}

// List handles GET /api/dealers?q=&station=&marketing_person=.
func (h *DealerHandler) List(c *gin.Context) {
	var filter dealer.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err, "Invalid filter."))
		return
	}

	sess := middleware.CurrentSession(c)
	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListRecordsQuery{
		AccessToken: sess.AccessToken,
		Filter:      filter,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, h.sessions.HandleError(c.Request.Context(), middleware.Scope(c), err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", dto.ToListRecordsResponse(result, h.viewBaseURL))
}

// Submit handles POST /api/dealers. Per-file status is returned with the
// error when the submission fails part way.
func (h *DealerHandler) Submit(c *gin.Context) {
	var req dto.SubmitDocumentsRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err, "Invalid submission."))
		return
	}

	var files []upload.FileHandle
	if form, err := c.MultipartForm(); err == nil {
		files = formFiles(form)
	}
	if err := h.checkSizes(files); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	sess := middleware.CurrentSession(c)
	result, err := h.submitUC.Execute(c.Request.Context(), usecases.SubmitDocumentsCommand{
		DealerName:      req.DealerName,
		Station:         req.Station,
		MarketingPerson: req.MarketingPerson,
		Files:           files,
		AccessToken:     sess.AccessToken,
		Actor:           sess.Email,
	})
	if err != nil {
		err = h.sessions.HandleError(c.Request.Context(), middleware.Scope(c), err)
		if result == nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		utils.ErrorResponseWithData(c, err, dto.ToSubmitDocumentsResponse(result, h.viewBaseURL))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Saved", dto.ToSubmitDocumentsResponse(result, h.viewBaseURL))
}

func (h *DealerHandler) checkSizes(files []upload.FileHandle) error {
	if h.maxFileBytes <= 0 {
		return nil
	}
	for _, f := range files {
		if f.Size() > h.maxFileBytes {
			return errors.NewValidationError(
				fmt.Sprintf("%s is larger than %d MB.", f.Name(), h.maxFileBytes>>20),
			)
		}
	}
	return nil
}
