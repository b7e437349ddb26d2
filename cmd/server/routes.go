package main

import (
	"github.com/gin-gonic/gin"
	"leadflow.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	leadHandler           *handlers.LeadHandler
	pipelineHandler       *handlers.PipelineHandler
	teamMemberHandler     *handlers.TeamMemberHandler
	idempotencyMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		leads := v1.Group("/leads")
		{
			leads.GET("", d.leadHandler.ListLeads)
			leads.POST("", d.idempotencyMiddleware, d.leadHandler.CreateLead)
			leads.GET("/:id", d.leadHandler.GetLead)
			leads.PATCH("/:id", d.leadHandler.UpdateLead)
			leads.PATCH("/:id/status", d.leadHandler.UpdateStatus)
			leads.PATCH("/:id/assignee", d.leadHandler.AssignLead)
			leads.DELETE("/:id", d.leadHandler.DeleteLead)
			leads.GET("/:id/timeline", d.leadHandler.GetTimeline)
			leads.POST("/:id/activities", d.leadHandler.RecordActivity)
		}

		v1.GET("/pipeline", d.pipelineHandler.GetPipeline)
		v1.POST("/pipeline/move", d.pipelineHandler.MoveLead)
		v1.GET("/dashboard", d.pipelineHandler.GetDashboard)

		members := v1.Group("/team-members")
		{
			members.GET("", d.teamMemberHandler.ListMembers)
			members.POST("", d.teamMemberHandler.CreateMember)
			members.PUT("/:id", d.teamMemberHandler.UpdateMember)
			members.DELETE("/:id", d.teamMemberHandler.DeleteMember)
		}
	}
}
