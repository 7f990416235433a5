package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autumninthecloud/AIBillBrief/internal/app"
	"github.com/autumninthecloud/AIBillBrief/internal/transport/http/response"
)

type BillHandler struct {
	billService *app.BillService
}

type BillQueryRequest struct {
	Question string `json:"question" binding:"required"`
	Limit    int    `json:"limit" binding:"gte=0,lte=50"`
}

func NewBillHandler(billService *app.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// Query runs classification and retrieval without the conversation layer, so
// callers can inspect what context a question would produce.
func (h *BillHandler) Query(c *gin.Context) {
	var req BillQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result := h.billService.Query(c.Request.Context(), req.Question, req.Limit)
	response.OK(c, result)
}

func (h *BillHandler) Recent(c *gin.Context) {
	bills, err := h.billService.RecentBills(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list recent bills failed")
		return
	}

	type recentBill struct {
		SourceFile string `json:"source_file"`
		Subtitle   string `json:"subtitle"`
		Sponsor    string `json:"sponsor"`
		DateFiled  string `json:"date_filed"`
		Link       string `json:"link"`
	}
	out := make([]recentBill, 0, len(bills))
	for _, b := range bills {
		item := recentBill{
			SourceFile: b.SourceFile,
			Link:       h.billService.Reference(b.SourceFile),
		}
		if b.BillSubtitle != nil {
			item.Subtitle = *b.BillSubtitle
		}
		if b.BillSponsor != nil {
			item.Sponsor = *b.BillSponsor
		}
		if b.DateFiled != nil {
			item.DateFiled = b.DateFiled.Format("2006-01-02")
		}
		out = append(out, item)
	}
	response.OK(c, out)
}

func (h *BillHandler) Stats(c *gin.Context) {
	stats, err := h.billService.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch bill stats failed")
		return
	}

	latest := ""
	if stats.LatestFileDate != nil {
		latest = stats.LatestFileDate.Format("2006-01-02")
	}
	response.OK(c, gin.H{
		"total_bills":      stats.TotalBills,
		"latest_file_date": latest,
	})
}
