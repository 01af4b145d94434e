package server

import (
	"net/http"

	db "adminserv/src/repository"

	"github.com/gin-gonic/gin"
)

func (a *AppHandler) ListBills(c *gin.Context) {
	bills, err := a.store.ListBills(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bills)
}

func (a *AppHandler) CreateBill(c *gin.Context) {
	var bill db.Bill
	if err := c.ShouldBindJSON(&bill); err != nil {
		countError(c)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := a.store.CreateBill(c.Request.Context(), &bill)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (a *AppHandler) UpdateBill(c *gin.Context) {
	var patch db.BillPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		countError(c)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := a.store.UpdateBill(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (a *AppHandler) DeleteBill(c *gin.Context) {
	if err := a.store.DeleteBill(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
