package handler

import (
	"doggtalk/internal/domain/manager/service"
	"doggtalk/pkg/response"

	"github.com/gin-gonic/gin"
)

type ManagerHandler struct {
	service service.ManagerService
}

func NewManagerHandler(s service.ManagerService) *ManagerHandler {
	return &ManagerHandler{service: s}
}

// LoginInput 登录输入
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员登录
// @Summary 管理员登录
// @Tags MGR
// @Accept json
// @Produce json
// @Param input body LoginInput true "账号密码"
// @Success 200 {object} response.Response
// @Router /mgr/manager/login [post]
func (h *ManagerHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.InvalidParams(c, err)
		return
	}

	token, expireAt, err := h.service.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "expire_at": expireAt.Unix()})
}
