package routes

import (
	"time"

	"Gin_postgres_redis_library/app"
	"Gin_postgres_redis_library/controllers"
	"Gin_postgres_redis_library/metrics"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	bookCtl := controllers.NewBookController(s)
	catCtl := controllers.NewCategoryController(s)
	memberCtl := controllers.NewMemberController(s)
	txCtl := controllers.NewTransactionController(s)

	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	r.GET("/metrics", metrics.Handler())

	// ------------------------------
	// Auth
	// ------------------------------
	optionalMW := app.OptionalAuth(s.AppSess, s.Repo)

	auth := r.Group("/auth")
	{
		// Optional session: an admin's cookie turns signup into add-member.
		auth.POST("/signup", optionalMW, authCtl.Signup)
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/whoami", authCtl.WhoAmI)
	}

	// ------------------------------
	// Catalog
	// ------------------------------
	books := r.Group("/books", authMW, seenMW)
	{
		books.GET("/allbooks", bookCtl.ListBooks)
		books.GET("/getbook/:id", bookCtl.GetBook)
	}
	booksAdmin := r.Group("/books", authMW, adminMW)
	{
		booksAdmin.POST("/addbook", bookCtl.AddBook)
		booksAdmin.PUT("/updatebook/:id", bookCtl.UpdateBook)
		booksAdmin.DELETE("/removebook/:id", bookCtl.RemoveBook)
	}

	cats := r.Group("/categories", authMW, seenMW)
	{
		cats.GET("/allcategories", catCtl.ListCategories)
	}
	catsAdmin := r.Group("/categories", authMW, adminMW)
	{
		catsAdmin.POST("/addcategory", catCtl.AddCategory)
	}

	// ------------------------------
	// Members
	// ------------------------------
	users := r.Group("/users", authMW, seenMW)
	{
		// self or admin; the engine guards the role.
		users.GET("/getuser/:id", memberCtl.GetMember)
	}
	usersAdmin := r.Group("/users", authMW, adminMW)
	{
		usersAdmin.GET("/allmembers", memberCtl.ListMembers)
		usersAdmin.DELETE("/removemember/:id", memberCtl.RemoveMember)
	}

	// ------------------------------
	// Borrowing lifecycle
	// ------------------------------
	tx := r.Group("/transactions", authMW, seenMW)
	{
		tx.POST("/request-book", txCtl.RequestBook)
		tx.POST("/cancel/:id", txCtl.Cancel) // requester or admin
	}
	txAdmin := r.Group("/transactions", authMW, adminMW)
	{
		txAdmin.POST("/add-transaction", txCtl.AddTransaction)
		txAdmin.POST("/approve/:id", txCtl.Approve)
		txAdmin.POST("/reject/:id", txCtl.Reject)
		txAdmin.POST("/return/:id", txCtl.Return)
		txAdmin.GET("/all-transactions", txCtl.ListAll)
		txAdmin.GET("/pending", txCtl.ListPending)
		txAdmin.GET("/active", txCtl.ListActive)
	}
}
