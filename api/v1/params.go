package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/releaserite/dto"
	"github.com/releaserite/services"
	"github.com/releaserite/utils"
)

// pathID reads a uuid path parameter, answering 400 when it is malformed
func pathID(ctx *gin.Context, name string) (string, bool) {
	id := ctx.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		utils.RespondError(ctx, services.NewError(services.ErrValidation, "Invalid %s: %s", name, id))
		return "", false
	}
	return id, true
}

func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		utils.RespondBadRequest(ctx, err)
		return false
	}
	return true
}

func bindListParams(ctx *gin.Context) (dto.ListParams, bool) {
	var params dto.ListParams
	if err := ctx.ShouldBindQuery(&params); err != nil {
		utils.RespondBadRequest(ctx, err)
		return params, false
	}
	return params.Normalize(), true
}
