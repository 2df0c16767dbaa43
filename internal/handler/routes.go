package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/applepeerke/fishing-sub000/internal/middleware"
	"github.com/applepeerke/fishing-sub000/internal/models"
	"github.com/applepeerke/fishing-sub000/internal/repository"
	"github.com/applepeerke/fishing-sub000/internal/service"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Grants     *GrantHandler
	Fishery    *FisheryHandler
	Simulation *SimulationHandler

	TokenCodec  *service.TokenCodec
	AuthService *service.AuthService
	Metrics     *service.MetricsService
	AuditRepo   *repository.UserRepository
}

func scope(entity, access string) string {
	return models.ScopePair{Entity: entity, Access: access}.Name()
}

// RegisterRoutes wires every endpoint under the API prefix. Each
// protected endpoint declares the scopes it requires.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	api := r.Group(prefix)
	api.Use(middleware.Metrics(h.Metrics))

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.Audit(h.AuditRepo, models.AuditActionRegister, "auth"), h.Auth.Register)
		auth.GET("/acknowledge", h.Auth.Acknowledge)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/password/change", h.Auth.ChangePassword)
		auth.POST("/password/forgot", h.Auth.ForgotPassword)
	}

	guard := middleware.Auth(h.TokenCodec, h.AuthService)
	api.POST("/auth/logout", guard, h.Auth.Logout)

	users := api.Group("/users", guard)
	{
		users.GET("/me", h.Users.Me)
		users.GET("", middleware.RequireScopes(scope(models.EntityUser, models.AccessReadAll)), h.Users.List)
		users.GET("/:id", middleware.RequireScopes(scope(models.EntityUser, models.AccessRead)), h.Users.Get)
		users.POST("/:id/blacklist", middleware.RequireScopes(scope(models.EntityUser, models.AccessUpdate)), h.Users.Blacklist)
		users.DELETE("/:id", middleware.RequireScopes(scope(models.EntityUser, models.AccessDelete)), h.Users.Delete)
		users.PUT("/:id/roles/:roleId", middleware.RequireScopes(scope(models.EntityUser, models.AccessUpdate)), h.Grants.AttachRole)
		users.DELETE("/:id/roles/:roleId", middleware.RequireScopes(scope(models.EntityUser, models.AccessUpdate)), h.Grants.DetachRole)
	}

	roles := api.Group("/roles", guard)
	{
		roles.POST("", middleware.RequireScopes(scope(models.EntityRole, models.AccessCreate)), h.Grants.CreateRole)
		roles.GET("", middleware.RequireScopes(scope(models.EntityRole, models.AccessReadAll)), h.Grants.ListRoles)
		roles.DELETE("/:id", middleware.RequireScopes(scope(models.EntityRole, models.AccessDelete)), h.Grants.DeleteRole)
		roles.PUT("/:id/acls/:aclId", middleware.RequireScopes(scope(models.EntityRole, models.AccessUpdate)), h.Grants.AttachACL)
		roles.DELETE("/:id/acls/:aclId", middleware.RequireScopes(scope(models.EntityRole, models.AccessUpdate)), h.Grants.DetachACL)
	}

	acls := api.Group("/acls", guard)
	{
		acls.POST("", middleware.RequireScopes(scope(models.EntityACL, models.AccessCreate)), h.Grants.CreateACL)
		acls.GET("", middleware.RequireScopes(scope(models.EntityACL, models.AccessReadAll)), h.Grants.ListACLs)
		acls.DELETE("/:id", middleware.RequireScopes(scope(models.EntityACL, models.AccessDelete)), h.Grants.DeleteACL)
		acls.PUT("/:id/scopes/:scopeId", middleware.RequireScopes(scope(models.EntityACL, models.AccessUpdate)), h.Grants.AttachScope)
		acls.DELETE("/:id/scopes/:scopeId", middleware.RequireScopes(scope(models.EntityACL, models.AccessUpdate)), h.Grants.DetachScope)
	}

	scopes := api.Group("/scopes", guard)
	{
		scopes.POST("", middleware.RequireScopes(scope(models.EntityScope, models.AccessCreate)), h.Grants.CreateScope)
		scopes.GET("", middleware.RequireScopes(scope(models.EntityScope, models.AccessReadAll)), h.Grants.ListScopes)
		scopes.PUT("/:id", middleware.RequireScopes(scope(models.EntityScope, models.AccessUpdate)), h.Grants.UpdateScope)
		scopes.DELETE("/:id", middleware.RequireScopes(scope(models.EntityScope, models.AccessDelete)), h.Grants.DeleteScope)
	}

	fishspecies := api.Group("/fishspecies", guard)
	{
		fishspecies.POST("", middleware.RequireScopes(scope(models.EntityFishSpecies, models.AccessCreate)), h.Fishery.CreateSpecies)
		fishspecies.GET("", middleware.RequireScopes(scope(models.EntityFishSpecies, models.AccessReadAll)), h.Fishery.ListSpecies)
		fishspecies.DELETE("/:id", middleware.RequireScopes(scope(models.EntityFishSpecies, models.AccessDelete)), h.Fishery.DeleteSpecies)
	}

	fish := api.Group("/fish", guard)
	{
		fish.POST("", middleware.RequireScopes(scope(models.EntityFish, models.AccessCreate)), h.Fishery.CreateFish)
		fish.GET("", middleware.RequireScopes(scope(models.EntityFish, models.AccessReadAll)), h.Fishery.ListFish)
		fish.DELETE("/:id", middleware.RequireScopes(scope(models.EntityFish, models.AccessDelete)), h.Fishery.DeleteFish)
	}

	waters := api.Group("/fishingwaters", guard)
	{
		waters.POST("", middleware.RequireScopes(scope(models.EntityFishingWater, models.AccessCreate)), h.Fishery.CreateWater)
		waters.GET("", middleware.RequireScopes(scope(models.EntityFishingWater, models.AccessReadAll)), h.Fishery.ListWaters)
		waters.DELETE("/:id", middleware.RequireScopes(scope(models.EntityFishingWater, models.AccessDelete)), h.Fishery.DeleteWater)
	}

	fishermen := api.Group("/fishermen", guard)
	{
		fishermen.POST("", middleware.RequireScopes(scope(models.EntityFisherman, models.AccessCreate)), h.Fishery.CreateFisherman)
		fishermen.GET("", middleware.RequireScopes(scope(models.EntityFisherman, models.AccessReadAll)), h.Fishery.ListFishermen)
	}

	simulations := api.Group("/simulations", guard)
	{
		simulations.POST("",
			middleware.RequireScopes(scope(models.EntityFish, models.AccessCatch)),
			middleware.Audit(h.AuditRepo, models.AuditActionSimulationStart, "simulation"),
			h.Simulation.Start)
		simulations.GET("", middleware.RequireScopes(scope(models.EntityFish, models.AccessRead)), h.Simulation.List)
		simulations.GET("/:id", middleware.RequireScopes(scope(models.EntityFish, models.AccessRead)), h.Simulation.Get)
		simulations.GET("/:id/export", middleware.RequireScopes(scope(models.EntityFish, models.AccessRead)), h.Simulation.Export)
	}
}
