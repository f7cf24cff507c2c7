package routes

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/rbac"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/infra/config"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/handlers"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/transport/http/middleware"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// ServiceSet bundles the use case services consumed by the HTTP layer.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Users         *usecase.UserService
	IAM           *usecase.IAMService
	Organizations *usecase.OrganizationService
	Tracks        *usecase.TrackService
	Categories    *usecase.CategoryService
	Races         *usecase.RaceService
	Participants  *usecase.ParticipantService
	Payments      *usecase.PaymentService
	Timings       *usecase.TimingService
	Bicycles      *usecase.BicycleService
	Dashboard     *usecase.DashboardService
	Audit         *usecase.AuditService
}

// Dependencies carries everything Register needs to assemble the engine.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// routePermissions is the authorization table: every guarded endpoint is
// declared here, keyed by "METHOD /path". Registration fails fast on a
// guarded route missing from the table, so the table and the routing tree
// cannot drift apart.
var routePermissions = map[string][]string{
	"POST /users":                {rbac.PermUsersCreate},
	"GET /users":                 {rbac.PermUsersRead},
	"GET /users/:id":             {rbac.PermUsersRead},
	"PATCH /users/:id":           {rbac.PermUsersUpdate},
	"DELETE /users/:id":          {rbac.PermUsersDelete},
	"GET /users/:id/roles":       {rbac.PermUsersRead},
	"POST /users/:id/roles":      {rbac.PermUsersManage},
	"DELETE /users/:id/roles":    {rbac.PermUsersManage},
	"GET /users/:id/permissions": {rbac.PermUsersRead},

	"GET /roles":                    {rbac.PermSystemManage},
	"GET /roles/:id":                {rbac.PermSystemManage},
	"POST /roles":                   {rbac.PermSystemManage},
	"PATCH /roles/:id":              {rbac.PermSystemManage},
	"DELETE /roles/:id":             {rbac.PermSystemManage},
	"POST /roles/:id/permissions":   {rbac.PermSystemManage},
	"DELETE /roles/:id/permissions": {rbac.PermSystemManage},
	"GET /permissions":              {rbac.PermSystemManage},

	"POST /organizations":                         {rbac.PermOrganizationsCreate},
	"GET /organizations":                          {rbac.PermOrganizationsRead},
	"GET /organizations/:id":                      {rbac.PermOrganizationsRead},
	"GET /organizations/slug/:slug":               {rbac.PermOrganizationsRead},
	"PATCH /organizations/:id":                    {rbac.PermOrganizationsUpdate},
	"DELETE /organizations/:id":                   {rbac.PermOrganizationsDelete},
	"POST /organizations/:id/members":             {rbac.PermOrgMembersCreate},
	"GET /organizations/:id/members":              {rbac.PermOrgMembersRead},
	"PATCH /organizations/:id/members/:memberId":  {rbac.PermOrgMembersUpdate},
	"DELETE /organizations/:id/members/:memberId": {rbac.PermOrgMembersDelete},

	"POST /tracks":                                 {rbac.PermTracksCreate},
	"GET /tracks":                                  {rbac.PermTracksRead},
	"GET /tracks/:id":                              {rbac.PermTracksRead},
	"PATCH /tracks/:id":                            {rbac.PermTracksUpdate},
	"DELETE /tracks/:id":                           {rbac.PermTracksDelete},
	"POST /tracks/:id/checkpoints":                 {rbac.PermCheckpointsCreate},
	"GET /tracks/:id/checkpoints":                  {rbac.PermCheckpointsRead},
	"PUT /tracks/:id/checkpoints/:checkpointId":    {rbac.PermCheckpointsUpdate},
	"DELETE /tracks/:id/checkpoints/:checkpointId": {rbac.PermCheckpointsDelete},

	"POST /categories":       {rbac.PermCategoriesCreate},
	"GET /categories":        {rbac.PermCategoriesRead},
	"GET /categories/:id":    {rbac.PermCategoriesRead},
	"PUT /categories/:id":    {rbac.PermCategoriesUpdate},
	"DELETE /categories/:id": {rbac.PermCategoriesDelete},

	"POST /races":                              {rbac.PermRacesCreate},
	"GET /races":                               {rbac.PermRacesRead},
	"GET /races/:id":                           {rbac.PermRacesRead},
	"PATCH /races/:id":                         {rbac.PermRacesUpdate},
	"DELETE /races/:id":                        {rbac.PermRacesDelete},
	"PUT /races/:id/status":                    {rbac.PermRacesPublish},
	"POST /races/:id/categories":               {rbac.PermRacesUpdate},
	"DELETE /races/:id/categories/:categoryId": {rbac.PermRacesUpdate},

	"POST /races/:id/participants":             {rbac.PermParticipantsCreate},
	"GET /races/:id/participants":              {rbac.PermParticipantsRead},
	"GET /participants/:participantId":         {rbac.PermParticipantsRead},
	"PATCH /participants/:participantId":       {rbac.PermParticipantsUpdate},
	"DELETE /participants/:participantId":      {rbac.PermParticipantsDelete},
	"GET /participants/:participantId/timings": {rbac.PermTimingRead},

	"POST /races/:id/timings":   {rbac.PermTimingRecord},
	"GET /races/:id/timings":    {rbac.PermTimingRead},
	"DELETE /timings/:timingId": {rbac.PermTimingDelete},

	"POST /payments":             {rbac.PermPaymentsCreate},
	"GET /payments/me":           {rbac.PermPaymentsRead},
	"GET /payments/:id":          {rbac.PermPaymentsRead},
	"PUT /payments/:id/complete": {rbac.PermPaymentsUpdate},
	"PUT /payments/:id/fail":     {rbac.PermPaymentsUpdate},
	"GET /races/:id/payments":    {rbac.PermPaymentsRead},

	"POST /me/bicycles":       {rbac.PermBicyclesCreate},
	"GET /me/bicycles":        {rbac.PermBicyclesRead},
	"GET /me/bicycles/:id":    {rbac.PermBicyclesRead},
	"PATCH /me/bicycles/:id":  {rbac.PermBicyclesUpdate},
	"DELETE /me/bicycles/:id": {rbac.PermBicyclesDelete},

	"GET /dashboard/totals":        {rbac.PermSystemManage},
	"GET /dashboard/registrations": {rbac.PermSystemManage},
	"GET /audit":                   {rbac.PermSystemManage},
}

// PermissionsFor returns the actions required for a guarded endpoint.
func PermissionsFor(method, path string) ([]string, bool) {
	perms, ok := routePermissions[method+" "+path]
	return perms, ok
}

// requires resolves the permission guard for an endpoint from the table.
func requires(method, path string) gin.HandlerFunc {
	perms, ok := PermissionsFor(method, path)
	if !ok {
		panic(fmt.Sprintf("routes: no permission entry for %s %s", method, path))
	}
	return middleware.RequirePermissions(perms...)
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && strings.EqualFold(deps.Config.App.Env, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.EnrichContext())
	engine.Use(middleware.RequestID())

	if deps.Logger != nil {
		engine.Use(middleware.Logger(deps.Logger))
	}

	allowedOrigins := []string{"*"}
	if deps.Config != nil && len(deps.Config.App.AllowedOrigins) > 0 {
		allowedOrigins = deps.Config.App.AllowedOrigins
	}
	engine.Use(middleware.CORS(allowedOrigins))

	if deps.Metrics != nil {
		engine.Use(deps.Metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("postgres", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	engine.GET("/healthz", healthHandler.Status)
	engine.GET("/readyz", healthHandler.Readiness)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Dashboard, deps.Services.Audit, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Services.Users, deps.Services.Audit, deps.Logger)
	iamHandler := handlers.NewIAMHandler(deps.Services.IAM, deps.Services.Audit, deps.Logger)
	organizationHandler := handlers.NewOrganizationHandler(deps.Services.Organizations, deps.Services.Audit, deps.Logger)
	trackHandler := handlers.NewTrackHandler(deps.Services.Tracks, deps.Services.Audit, deps.Logger)
	categoryHandler := handlers.NewCategoryHandler(deps.Services.Categories)
	raceHandler := handlers.NewRaceHandler(deps.Services.Races, deps.Services.Audit, deps.Logger)
	participantHandler := handlers.NewParticipantHandler(deps.Services.Participants)
	paymentHandler := handlers.NewPaymentHandler(deps.Services.Payments)
	timingHandler := handlers.NewTimingHandler(deps.Services.Timings)
	bicycleHandler := handlers.NewBicycleHandler(deps.Services.Bicycles, deps.Services.Users)
	dashboardHandler := handlers.NewDashboardHandler(deps.Services.Dashboard)
	auditHandler := handlers.NewAuditHandler(deps.Services.Audit)

	api := engine.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", buildRegisterMiddlewares(deps, authHandler.Register)...)
	auth.POST("/login", buildLoginMiddlewares(deps, authHandler.Login)...)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(deps.Services.Auth))

	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/api-token", authHandler.IssueAPIToken)
	protected.DELETE("/auth/api-token", authHandler.RevokeAPIToken)
	protected.PUT("/auth/password", authHandler.ChangePassword)
	protected.GET("/me/profile", userHandler.GetProfile)
	protected.PATCH("/me/profile", userHandler.UpdateProfile)
	protected.GET("/me/results", dashboardHandler.MyResults)
	protected.GET("/me/schedule", dashboardHandler.MySchedule)
	protected.GET("/dashboard/menu", dashboardHandler.Menu)

	protected.POST("/users", requires("POST", "/users"), userHandler.Create)
	protected.GET("/users", requires("GET", "/users"), userHandler.List)
	protected.GET("/users/:id", requires("GET", "/users/:id"), userHandler.Get)
	protected.PATCH("/users/:id", requires("PATCH", "/users/:id"), userHandler.Update)
	protected.DELETE("/users/:id", requires("DELETE", "/users/:id"), userHandler.Deactivate)
	protected.GET("/users/:id/roles", requires("GET", "/users/:id/roles"), iamHandler.UserRoles)
	protected.POST("/users/:id/roles", requires("POST", "/users/:id/roles"), iamHandler.AssignUserRoles)
	protected.DELETE("/users/:id/roles", requires("DELETE", "/users/:id/roles"), iamHandler.RevokeUserRoles)
	protected.GET("/users/:id/permissions", requires("GET", "/users/:id/permissions"), iamHandler.UserPermissions)

	protected.GET("/roles", requires("GET", "/roles"), iamHandler.ListRoles)
	protected.GET("/roles/:id", requires("GET", "/roles/:id"), iamHandler.GetRole)
	protected.POST("/roles", requires("POST", "/roles"), iamHandler.CreateRole)
	protected.PATCH("/roles/:id", requires("PATCH", "/roles/:id"), iamHandler.UpdateRole)
	protected.DELETE("/roles/:id", requires("DELETE", "/roles/:id"), iamHandler.DeleteRole)
	protected.POST("/roles/:id/permissions", requires("POST", "/roles/:id/permissions"), iamHandler.GrantPermissions)
	protected.DELETE("/roles/:id/permissions", requires("DELETE", "/roles/:id/permissions"), iamHandler.RevokePermissions)
	protected.GET("/permissions", requires("GET", "/permissions"), iamHandler.ListPermissions)

	protected.POST("/organizations", requires("POST", "/organizations"), organizationHandler.Create)
	protected.GET("/organizations", requires("GET", "/organizations"), organizationHandler.List)
	protected.GET("/organizations/:id", requires("GET", "/organizations/:id"), organizationHandler.Get)
	protected.GET("/organizations/slug/:slug", requires("GET", "/organizations/slug/:slug"), organizationHandler.GetBySlug)
	protected.PATCH("/organizations/:id", requires("PATCH", "/organizations/:id"), organizationHandler.Update)
	protected.DELETE("/organizations/:id", requires("DELETE", "/organizations/:id"), organizationHandler.Delete)
	protected.POST("/organizations/:id/members", requires("POST", "/organizations/:id/members"), organizationHandler.AddMember)
	protected.GET("/organizations/:id/members", requires("GET", "/organizations/:id/members"), organizationHandler.ListMembers)
	protected.PATCH("/organizations/:id/members/:memberId", requires("PATCH", "/organizations/:id/members/:memberId"), organizationHandler.UpdateMemberRole)
	protected.DELETE("/organizations/:id/members/:memberId", requires("DELETE", "/organizations/:id/members/:memberId"), organizationHandler.RemoveMember)

	protected.POST("/tracks", requires("POST", "/tracks"), trackHandler.Create)
	protected.GET("/tracks", requires("GET", "/tracks"), trackHandler.List)
	protected.GET("/tracks/:id", requires("GET", "/tracks/:id"), trackHandler.Get)
	protected.PATCH("/tracks/:id", requires("PATCH", "/tracks/:id"), trackHandler.Update)
	protected.DELETE("/tracks/:id", requires("DELETE", "/tracks/:id"), trackHandler.Delete)
	protected.POST("/tracks/:id/checkpoints", requires("POST", "/tracks/:id/checkpoints"), trackHandler.AddCheckpoint)
	protected.GET("/tracks/:id/checkpoints", requires("GET", "/tracks/:id/checkpoints"), trackHandler.ListCheckpoints)
	protected.PUT("/tracks/:id/checkpoints/:checkpointId", requires("PUT", "/tracks/:id/checkpoints/:checkpointId"), trackHandler.UpdateCheckpoint)
	protected.DELETE("/tracks/:id/checkpoints/:checkpointId", requires("DELETE", "/tracks/:id/checkpoints/:checkpointId"), trackHandler.RemoveCheckpoint)

	protected.POST("/categories", requires("POST", "/categories"), categoryHandler.Create)
	protected.GET("/categories", requires("GET", "/categories"), categoryHandler.List)
	protected.GET("/categories/:id", requires("GET", "/categories/:id"), categoryHandler.Get)
	protected.PUT("/categories/:id", requires("PUT", "/categories/:id"), categoryHandler.Update)
	protected.DELETE("/categories/:id", requires("DELETE", "/categories/:id"), categoryHandler.Delete)

	protected.POST("/races", requires("POST", "/races"), raceHandler.Create)
	protected.GET("/races", requires("GET", "/races"), raceHandler.List)
	protected.GET("/races/:id", requires("GET", "/races/:id"), raceHandler.Get)
	protected.PATCH("/races/:id", requires("PATCH", "/races/:id"), raceHandler.Update)
	protected.DELETE("/races/:id", requires("DELETE", "/races/:id"), raceHandler.Delete)
	protected.PUT("/races/:id/status", requires("PUT", "/races/:id/status"), raceHandler.ChangeStatus)
	protected.POST("/races/:id/categories", requires("POST", "/races/:id/categories"), raceHandler.AttachCategories)
	protected.DELETE("/races/:id/categories/:categoryId", requires("DELETE", "/races/:id/categories/:categoryId"), raceHandler.DetachCategory)

	protected.POST("/races/:id/participants", requires("POST", "/races/:id/participants"), participantHandler.Register)
	protected.GET("/races/:id/participants", requires("GET", "/races/:id/participants"), participantHandler.ListByRace)
	protected.GET("/participants/:participantId", requires("GET", "/participants/:participantId"), participantHandler.Get)
	protected.PATCH("/participants/:participantId", requires("PATCH", "/participants/:participantId"), participantHandler.Update)
	protected.DELETE("/participants/:participantId", requires("DELETE", "/participants/:participantId"), participantHandler.Withdraw)
	protected.GET("/participants/:participantId/timings", requires("GET", "/participants/:participantId/timings"), timingHandler.ListByParticipant)

	protected.POST("/races/:id/timings", requires("POST", "/races/:id/timings"), timingHandler.Record)
	protected.GET("/races/:id/timings", requires("GET", "/races/:id/timings"), timingHandler.ListByRace)
	protected.DELETE("/timings/:timingId", requires("DELETE", "/timings/:timingId"), timingHandler.Remove)

	protected.POST("/payments", requires("POST", "/payments"), paymentHandler.Create)
	protected.GET("/payments/me", requires("GET", "/payments/me"), paymentHandler.ListMine)
	protected.GET("/payments/:id", requires("GET", "/payments/:id"), paymentHandler.Get)
	protected.PUT("/payments/:id/complete", requires("PUT", "/payments/:id/complete"), paymentHandler.Complete)
	protected.PUT("/payments/:id/fail", requires("PUT", "/payments/:id/fail"), paymentHandler.Fail)
	protected.GET("/races/:id/payments", requires("GET", "/races/:id/payments"), paymentHandler.ListByRace)

	protected.POST("/me/bicycles", requires("POST", "/me/bicycles"), bicycleHandler.Create)
	protected.GET("/me/bicycles", requires("GET", "/me/bicycles"), bicycleHandler.List)
	protected.GET("/me/bicycles/:id", requires("GET", "/me/bicycles/:id"), bicycleHandler.Get)
	protected.PATCH("/me/bicycles/:id", requires("PATCH", "/me/bicycles/:id"), bicycleHandler.Update)
	protected.DELETE("/me/bicycles/:id", requires("DELETE", "/me/bicycles/:id"), bicycleHandler.Retire)

	protected.GET("/dashboard/totals", requires("GET", "/dashboard/totals"), dashboardHandler.Totals)
	protected.GET("/dashboard/registrations", requires("GET", "/dashboard/registrations"), dashboardHandler.MonthlyRegistrations)
	protected.GET("/audit", requires("GET", "/audit"), auditHandler.List)

	return engine
}

func buildLoginMiddlewares(deps Dependencies, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, 2)
	if deps.RateLimiter != nil && deps.Config != nil {
		chain = append(chain, deps.RateLimiter.RateLimit(middleware.RateLimitRule{
			Name:       "auth_login_ip",
			Limit:      deps.Config.RateLimit.LoginMaxAttempts,
			Window:     deps.Config.RateLimit.WindowDuration,
			Identifier: middleware.ClientIPIdentifier(),
		}))
	}
	return append(chain, handler)
}

func buildRegisterMiddlewares(deps Dependencies, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, 2)
	if deps.RateLimiter != nil && deps.Config != nil {
		chain = append(chain, deps.RateLimiter.RateLimit(middleware.RateLimitRule{
			Name:       "auth_register_ip",
			Limit:      deps.Config.RateLimit.RegisterMaxAttempts,
			Window:     deps.Config.RateLimit.WindowDuration,
			Identifier: middleware.ClientIPIdentifier(),
		}))
	}
	return append(chain, handler)
}
