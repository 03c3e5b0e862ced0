package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/woozymasta/beato-configurator/internal/configurator"
	"github.com/woozymasta/beato-configurator/internal/palette"
	"github.com/woozymasta/beato-configurator/internal/parts"
	"github.com/woozymasta/beato-configurator/internal/product"
	"github.com/woozymasta/beato-configurator/internal/session"
)

// Catalog handlers

func (s *Server) handleProducts(c *gin.Context) {
	type summary struct {
		Name     string       `json:"name"`
		Title    string       `json:"title"`
		Views    []parts.View `json:"views"`
		Price    string       `json:"price"`
		Currency string       `json:"currency"`
	}

	var out []summary
	for _, d := range s.opts.Catalog.All() {
		out = append(out, summary{Name: d.Name, Title: d.Title, Views: d.Views, Price: d.Price, Currency: d.Currency})
	}

	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (s *Server) handleProduct(c *gin.Context) {
	def, err := s.opts.Catalog.Get(c.Param("product"))
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, def)
}

// Session handlers

func (s *Server) session(c *gin.Context) (*session.Session, bool) {
	sess, err := s.opts.Sessions.Get(c.Request.Context(), c.Param("product"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}

	return sess, true
}

func (s *Server) handleState(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sess.State())
}

func (s *Server) handleScene(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sess.Scene().Snapshot())
}

func (s *Server) handleView(c *gin.Context) {
	var req struct {
		View parts.View `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := s.session(c)
	if !ok {
		return
	}

	token, state, err := sess.ChangeView(c.Request.Context(), req.View)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "state": state})
}

func (s *Server) handleClick(c *gin.Context) {
	var req struct {
		Part   string `json:"part"`
		Extend bool   `json:"extend"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := s.session(c)
	if !ok {
		return
	}

	res, err := sess.Click(req.Part, req.Extend)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) handleColor(c *gin.Context) {
	var req struct {
		Color string `json:"color" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := s.session(c)
	if !ok {
		return
	}

	state, err := sess.ApplyColor(req.Color)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (s *Server) handleClassify(c *gin.Context) {
	var req struct {
		Meshes []parts.Mesh `json:"meshes" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := s.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, sess.Classify(c.Request.Context(), req.Meshes))
}

func (s *Server) handleSettle(c *gin.Context) {
	var req struct {
		Token uint64 `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, ok := s.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"settled": sess.SettleCamera(req.Token)})
}

func (s *Server) handleCart(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	cart, err := sess.AddToCart()
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (s *Server) handleWS(c *gin.Context) {
	def, err := s.opts.Catalog.Get(c.Param("product"))
	if err != nil {
		s.fail(c, err)
		return
	}

	// make sure the session exists so the latest record is retained
	if _, err := s.opts.Sessions.Get(c.Request.Context(), def.Name); err != nil {
		s.fail(c, err)
		return
	}

	s.opts.Hub.ServeWS(c.Writer, c.Request, def.Name)
}

// fail maps domain errors onto HTTP status codes.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, product.ErrUnknownProduct):
		status = http.StatusNotFound
	case errors.Is(err, configurator.ErrNothingSelected):
		status = http.StatusConflict
	case errors.Is(err, configurator.ErrNotLoaded):
		status = http.StatusConflict
	case errors.Is(err, configurator.ErrUnknownView), errors.Is(err, palette.ErrUnknownColor):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "err", err)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
