package controllers

import (
	"errors"
	"net/http"

	"github.com/LOCAL2/food-score/models"
	"github.com/LOCAL2/food-score/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	Svc *services.FoodLogService
}

func NewFoodController(svc *services.FoodLogService) *FoodController {
	return &FoodController{Svc: svc}
}

func (f *FoodController) LogFoodItem(c *gin.Context) {
	var body struct {
		FoodName string `json:"foodName"`
		Amount   int    `json:"amount"`
		MealType string `json:"mealType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	item := &models.FoodItem{
		UserID:    c.GetString("userID"),
		UserName:  c.GetString("userName"),
		UserEmail: c.GetString("userEmail"),
		FoodName:  body.FoodName,
		Amount:    body.Amount,
		MealType:  body.MealType,
	}
	if err := f.Svc.Add(c.Request.Context(), item); err != nil {
		f.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
		"message": "Food item saved successfully",
	})
}

func (f *FoodController) ListFoodItems(c *gin.Context) {
	items, err := f.Svc.ListForUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		f.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

func (f *FoodController) ClearFoodItems(c *gin.Context) {
	deleted, err := f.Svc.ClearForUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		f.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}

func (f *FoodController) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidFoodItem):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "food log requires the database"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
