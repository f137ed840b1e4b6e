package controllers

import (
	"net/http"

	"github.com/LOCAL2/food-score/services"
	"github.com/LOCAL2/food-score/utils"

	"github.com/gin-gonic/gin"
)

const stateCookie = "oauth_state"

type AuthController struct {
	Svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

// Login redirects the browser to the provider's consent page. The state
// token lands in a short-lived cookie and must come back on the callback.
func (a *AuthController) Login(c *gin.Context) {
	p, ok := a.Svc.Provider(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}

	state := utils.GenerateRandomToken(32)
	c.SetCookie(stateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusFound, p.AuthURL(state))
}

func (a *AuthController) Callback(c *gin.Context) {
	p, ok := a.Svc.Provider(c.Param("provider"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}

	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	ident, err := p.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "oauth exchange failed"})
		return
	}

	token, err := utils.GenerateJWT(ident.ID, ident.Name, ident.Email, ident.AvatarURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": ident})
}
