package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/johnoltman65/commerce-authnet/controllers"
	"github.com/johnoltman65/commerce-authnet/middleware"
)

func RegisterPaymentRoutes(r *gin.Engine, pc *controllers.PaymentController) {
	limiter := middleware.NewRateLimiter(rate.Limit(10), 20, 5*time.Minute)
	r.Use(limiter.Middleware())

	methods := r.Group("/payment-methods")
	methods.Use(middleware.AuthMiddleware())
	methods.POST("", pc.CreatePaymentMethod)

	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	payments.POST("", pc.CreatePayment)
	payments.POST("/:id/capture", pc.CapturePayment)
	payments.POST("/:id/void", pc.VoidPayment)
	payments.POST("/:id/refund", pc.RefundPayment)

	// Operational endpoint, no end-user auth.
	r.POST("/settlements/reconcile", pc.Reconcile)
}
