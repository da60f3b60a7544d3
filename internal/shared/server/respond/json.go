package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with success=true merged into the envelope.
func JSON(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// OK writes a 200 OK success envelope.
func OK(c *gin.Context, payload gin.H) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 Created success envelope.
func Created(c *gin.Context, payload gin.H) {
	JSON(c, http.StatusCreated, payload)
}
