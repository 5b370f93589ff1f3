package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
	"github.com/sangkips/fms-api/internal/presentation/http/middleware"
	"github.com/sangkips/fms-api/pkg/pagination"
)

const dateLayout = "2006-01-02"

// currentActor returns the authenticated caller, answering 401 when there is none
func currentActor(c *gin.Context) (*service.Actor, bool) {
	actor := middleware.GetActor(c)
	if actor == nil {
		response.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	return actor, true
}

// pathID parses the uuid path parameter name
func pathID(c *gin.Context, name, document string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+document+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	return pagination.FromQuery(c.Query("page"), c.Query("per_page"))
}

// optionalDate parses a YYYY-MM-DD value; an empty string is nil
func optionalDate(c *gin.Context, value, field string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		response.BadRequest(c, "Invalid "+field+" format. Use YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

func bindFailed(c *gin.Context, err error) {
	response.BadRequest(c, "Invalid request body: "+err.Error())
}
