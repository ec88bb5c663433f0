package utils

import "github.com/gin-gonic/gin"

// JSONSuccess writes {"status":"success","data":...}.
func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

// JSONError writes {"error":{"code","message","details"}}; details is omitted when nil.
func JSONError(c *gin.Context, status int, code, message string, details interface{}) {
	body := gin.H{"code": code, "message": message}
	if details != nil {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}
