package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONMessage is the shape every ledger operation answers with.
func JSONMessage(c *gin.Context, code int, message string, extra gin.H) {
	body := gin.H{"success": code < 400, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(code, body)
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "message": message})
}
