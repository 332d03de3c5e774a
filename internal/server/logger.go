package server

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey はginコンテキストにリクエストIDを保存するキー
const requestIDKey = "request_id"

// requestLogger はリクエスト毎に1行のアクセスログを出力するミドルウェア
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.New().String()
		c.Set(requestIDKey, id)

		c.Next()

		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}
		log.Printf("%s %s \"%s %s %s\" %d %d %v",
			id, c.ClientIP(), c.Request.Method, c.Request.URL.Path, c.Request.Proto,
			c.Writer.Status(), size, time.Since(start))
	}
}
