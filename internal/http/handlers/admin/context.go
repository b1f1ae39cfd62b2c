package admin

import (
	"time"

	"github.com/gin-gonic/gin"
)

// getOperatorID 读取操作人 ID，仅用于审计日志
func getOperatorID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
