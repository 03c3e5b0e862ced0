package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/woozymasta/beato-configurator/internal/checkout"
	"github.com/woozymasta/beato-configurator/internal/notify"
)

// Payment handlers

func (s *Server) handleSignature(c *gin.Context) {
	var req checkout.SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan datos requeridos"})
		return
	}

	signature, err := s.opts.Credentials.Sign(req)
	switch {
	case errors.Is(err, checkout.ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan datos requeridos"})
		return
	case err != nil:
		s.log.Error("signature failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"signature": signature})
}

func (s *Server) handleWebhook(c *gin.Context) {
	var conf checkout.Confirmation
	if err := c.ShouldBind(&conf); err != nil {
		s.log.Warn("webhook body not parsed", "err", err)
	}

	if conf.Approved() {
		msg := notify.PaymentMessage(s.opts.NotifyTo, conf)
		if err := s.opts.Mailer.Send(c.Request.Context(), msg); err != nil {
			s.log.Error("payment notification failed", "reference", conf.ReferenceSale, "err", err)
		} else {
			s.log.Info("payment notification sent", "reference", conf.ReferenceSale)
		}
	}

	c.String(http.StatusOK, "OK")
}

func (s *Server) handleReference(c *gin.Context) {
	name := c.DefaultQuery("product", "beato")
	if _, err := s.opts.Catalog.Get(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"referenceCode": checkout.NewReference(name)})
}
