package server

import "github.com/gin-gonic/gin"

type errorResponse struct {
	Error string `json:"error"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}
