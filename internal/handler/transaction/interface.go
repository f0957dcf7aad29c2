package transaction

import "github.com/gin-gonic/gin"

type IHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	RetryPayout(c *gin.Context)
}
