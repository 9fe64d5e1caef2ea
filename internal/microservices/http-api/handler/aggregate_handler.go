package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"animehub/internal/aggregator"
	"animehub/internal/catalog"
	"animehub/internal/microservices/http-api/dto"
	"animehub/pkg/models"
)

// AggregateService is the part of *aggregator.Aggregator the handler needs.
type AggregateService interface {
	Aggregate(ctx context.Context, entity models.EntityType, primary models.SourceID) (any, error)
	Search(ctx context.Context, entity models.EntityType, source models.Source, text string, page int) ([]catalog.Payload, error)
}

var _ AggregateService = (*aggregator.Aggregator)(nil)

type AggregateHandler struct {
	svc AggregateService
}

func NewAggregateHandler(svc AggregateService) *AggregateHandler {
	return &AggregateHandler{svc: svc}
}

func (h *AggregateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/aggregate/:entity/:source/:id", h.Aggregate)
	rg.GET("/search/:entity", h.Search)
}

// Aggregate handles GET /aggregate/:entity/:source/:id. Secondary failures
// still answer 200 with the missing sources listed in the body.
func (h *AggregateHandler) Aggregate(c *gin.Context) {
	entity, err := models.ParseEntityType(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	// The aggregator bounds each catalog call itself; this is only the caller's context.
	res, err := h.svc.Aggregate(c.Request.Context(), entity, models.SourceID{Source: source, Value: id})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Search handles GET /search/:entity?source=&q=&page=.
func (h *AggregateHandler) Search(c *gin.Context) {
	entity, err := models.ParseEntityType(c.Param("entity"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	source := models.SourceMAL
	if s := c.Query("source"); s != "" {
		if source, err = models.ParseSource(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	list, err := h.svc.Search(c.Request.Context(), entity, source, q, page)
	if err != nil {
		writeError(c, err)
		return
	}
	hits := dto.FromPayloads(list)
	c.JSON(http.StatusOK, dto.SearchResponse{
		Data:   hits,
		Source: string(source),
		Query:  q,
		Page:   page,
		Count:  len(hits),
	})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StatusForKind maps an error kind to the HTTP status the API answers with.
func StatusForKind(kind models.ErrorKind) int {
	switch kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindRateLimited:
		return http.StatusTooManyRequests
	case models.KindTimeout:
		return http.StatusGatewayTimeout
	case models.KindInvalidRequest:
		return http.StatusBadRequest
	case models.KindUnavailable, models.KindMalformed, models.KindUnresolvable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	var ae *aggregator.AggregateError
	if errors.As(err, &ae) {
		c.JSON(StatusForKind(ae.Kind), dto.ErrorResponse{
			Error:   ae.Message,
			Kind:    ae.Kind,
			Source:  ae.Primary.Source,
			Primary: ae.Primary.String(),
		})
		return
	}
	var se *models.SourceError
	if errors.As(err, &se) {
		c.JSON(StatusForKind(se.Kind), dto.ErrorResponse{Error: se.Message, Kind: se.Kind, Source: se.Source})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: err.Error(), Kind: models.KindTimeout})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
