package httpapi

import (
	"time"

	"github.com/riskibarqy/teamflow/internal/domain/attendance"
	"github.com/riskibarqy/teamflow/internal/domain/event"
	"github.com/riskibarqy/teamflow/internal/domain/message"
	"github.com/riskibarqy/teamflow/internal/domain/player"
	"github.com/riskibarqy/teamflow/internal/domain/playerstats"
	"github.com/riskibarqy/teamflow/internal/domain/teamfile"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

type createPlayerRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	JerseyNumber     string `json:"jerseyNumber" validate:"required,max=10"`
	Position         string `json:"position" validate:"required,max=50"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone" validate:"max=40"`
	EmergencyContact string `json:"emergencyContact" validate:"max=100"`
	EmergencyPhone   string `json:"emergencyPhone" validate:"max=40"`
	PhotoURL         string `json:"photoUrl"`
}

type updatePlayerRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100"`
	JerseyNumber     *string `json:"jerseyNumber" validate:"omitempty,min=1,max=10"`
	Position         *string `json:"position" validate:"omitempty,min=1,max=50"`
	Email            *string `json:"email" validate:"omitempty,email"`
	Phone            *string `json:"phone" validate:"omitempty,max=40"`
	EmergencyContact *string `json:"emergencyContact" validate:"omitempty,max=100"`
	EmergencyPhone   *string `json:"emergencyPhone" validate:"omitempty,max=40"`
	PhotoURL         *string `json:"photoUrl"`
}

type createEventRequest struct {
	Title    string `json:"title" validate:"max=200"`
	Type     string `json:"type" validate:"required,oneof=game practice event"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,clocktime"`
	Location string `json:"location" validate:"required,max=200"`
	Opponent string `json:"opponent" validate:"max=200"`
	Notes    string `json:"notes" validate:"max=2000"`
}

type updateEventRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Type     *string `json:"type" validate:"omitempty,oneof=game practice event"`
	Date     *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time     *string `json:"time" validate:"omitempty,clocktime"`
	Location *string `json:"location" validate:"omitempty,min=1,max=200"`
	Opponent *string `json:"opponent" validate:"omitempty,max=200"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
}

type availabilityRequest struct {
	Status string `json:"status" validate:"required,oneof=available maybe unavailable"`
}

type createMessageRequest struct {
	Sender     string `json:"sender" validate:"required,max=100"`
	Content    string `json:"content" validate:"required,max=5000"`
	Recipients string `json:"recipients" validate:"required,oneof=all coaches players parents"`
}

type createFileRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Type       string `json:"type" validate:"required,max=255"`
	URL        string `json:"url" validate:"required"`
	UploadedBy string `json:"uploadedBy" validate:"required,max=100"`
	Category   string `json:"category" validate:"required,oneof=document photo other"`
}

type updateFileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Category *string `json:"category" validate:"omitempty,oneof=document photo other"`
}

type createStatsRequest struct {
	PlayerID string             `json:"playerId" validate:"required"`
	GameID   string             `json:"gameId" validate:"required"`
	Points   *int               `json:"points" validate:"omitempty,min=0"`
	Assists  *int               `json:"assists" validate:"omitempty,min=0"`
	Rebounds *int               `json:"rebounds" validate:"omitempty,min=0"`
	Goals    *int               `json:"goals" validate:"omitempty,min=0"`
	Extra    map[string]float64 `json:"extra" validate:"omitempty,dive,keys,required,endkeys"`
}

type updateStatsRequest struct {
	Points   *int               `json:"points" validate:"omitempty,min=0"`
	Assists  *int               `json:"assists" validate:"omitempty,min=0"`
	Rebounds *int               `json:"rebounds" validate:"omitempty,min=0"`
	Goals    *int               `json:"goals" validate:"omitempty,min=0"`
	Extra    map[string]float64 `json:"extra" validate:"omitempty,dive,keys,required,endkeys"`
}

type playerDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	JerseyNumber     string `json:"jerseyNumber"`
	Position         string `json:"position"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	PhotoURL         string `json:"photoUrl,omitempty"`
}

type eventDTO struct {
	ID           string            `json:"id"`
	Title        string            `json:"title,omitempty"`
	Type         string            `json:"type"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Location     string            `json:"location"`
	Opponent     string            `json:"opponent,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Availability map[string]string `json:"availability"`
}

type tallyDTO struct {
	Available   int  `json:"available"`
	Maybe       int  `json:"maybe"`
	Unavailable int  `json:"unavailable"`
	NoResponse  *int `json:"noResponse,omitempty"`
}

type messageDTO struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	Content    string `json:"content"`
	Timestamp  string `json:"timestamp"`
	Recipients string `json:"recipients"`
}

type fileDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	URL            string `json:"url"`
	UploadedBy     string `json:"uploadedBy"`
	UploadedAt     string `json:"uploadedAt"`
	Category       string `json:"category"`
	ShareID        string `json:"shareId,omitempty"`
	ShareEnabled   bool   `json:"shareEnabled"`
	ShareCreatedAt string `json:"shareCreatedAt,omitempty"`
}

type shareLinkDTO struct {
	ShareID  string `json:"shareId"`
	ShareURL string `json:"shareUrl"`
}

type statsDTO struct {
	PlayerID string             `json:"playerId"`
	GameID   string             `json:"gameId"`
	Points   *int               `json:"points,omitempty"`
	Assists  *int               `json:"assists,omitempty"`
	Rebounds *int               `json:"rebounds,omitempty"`
	Goals    *int               `json:"goals,omitempty"`
	Extra    map[string]float64 `json:"extra,omitempty"`
}

type scorerDTO struct {
	PlayerID    string `json:"playerId"`
	TotalPoints int    `json:"totalPoints"`
}

type aggregationDTO struct {
	PlayerID        string  `json:"playerId"`
	TotalGames      int     `json:"totalGames"`
	TotalPoints     int     `json:"totalPoints"`
	TotalAssists    int     `json:"totalAssists"`
	TotalRebounds   int     `json:"totalRebounds"`
	TotalGoals      int     `json:"totalGoals"`
	AveragePoints   float64 `json:"averagePoints"`
	AverageAssists  float64 `json:"averageAssists"`
	AverageRebounds float64 `json:"averageRebounds"`
	AverageGoals    float64 `json:"averageGoals"`
}

type playerAttendanceDTO struct {
	Player         playerDTO `json:"player"`
	Responded      int       `json:"responded"`
	Available      int       `json:"available"`
	AttendanceRate int       `json:"attendanceRate"`
}

type eventParticipationDTO struct {
	Event        eventDTO `json:"event"`
	Tally        tallyDTO `json:"tally"`
	ResponseRate int      `json:"responseRate"`
}

type summaryDTO struct {
	TeamSize    int `json:"teamSize"`
	TotalEvents int `json:"totalEvents"`
	Games       int `json:"games"`
	Practices   int `json:"practices"`
}

type dashboardDTO struct {
	Summary        summaryDTO   `json:"summary"`
	UpcomingEvents []eventDTO   `json:"upcomingEvents"`
	RecentMessages []messageDTO `json:"recentMessages"`
	TopScorers     []scorerDTO  `json:"topScorers"`
}

func formatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339)
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:               v.ID,
		Name:             v.Name,
		JerseyNumber:     v.JerseyNumber,
		Position:         v.Position,
		Email:            v.Email,
		Phone:            v.Phone,
		EmergencyContact: v.EmergencyContact,
		EmergencyPhone:   v.EmergencyPhone,
		PhotoURL:         v.PhotoURL,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func eventToDTO(v event.Event) eventDTO {
	availability := make(map[string]string, len(v.Availability))
	for playerID, status := range v.Availability {
		availability[playerID] = string(status)
	}
	return eventDTO{
		ID:           v.ID,
		Title:        v.Title,
		Type:         string(v.Type),
		Date:         v.Date,
		Time:         v.Time,
		Location:     v.Location,
		Opponent:     v.Opponent,
		Notes:        v.Notes,
		Availability: availability,
	}
}

func eventsToDTO(items []event.Event) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventToDTO(item))
	}
	return out
}

func tallyToDTO(v event.Tally) tallyDTO {
	out := tallyDTO{
		Available:   v.Available,
		Maybe:       v.Maybe,
		Unavailable: v.Unavailable,
	}
	if v.RosterKnown {
		noResponse := v.NoResponse
		out.NoResponse = &noResponse
	}
	return out
}

func messageToDTO(v message.Message) messageDTO {
	return messageDTO{
		ID:         v.ID,
		Sender:     v.Sender,
		Content:    v.Content,
		Timestamp:  formatTime(v.Timestamp),
		Recipients: string(v.Recipients),
	}
}

func messagesToDTO(items []message.Message) []messageDTO {
	out := make([]messageDTO, 0, len(items))
	for _, item := range items {
		out = append(out, messageToDTO(item))
	}
	return out
}

func fileToDTO(v teamfile.File) fileDTO {
	out := fileDTO{
		ID:           v.ID,
		Name:         v.Name,
		Type:         v.Type,
		URL:          v.URL,
		UploadedBy:   v.UploadedBy,
		UploadedAt:   formatTime(v.UploadedAt),
		Category:     string(v.Category),
		ShareID:      v.ShareID,
		ShareEnabled: v.ShareEnabled,
	}
	if v.ShareCreatedAt != nil {
		out.ShareCreatedAt = formatTime(*v.ShareCreatedAt)
	}
	return out
}

func filesToDTO(items []teamfile.File) []fileDTO {
	out := make([]fileDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fileToDTO(item))
	}
	return out
}

func shareLinkToDTO(v usecase.ShareLink) shareLinkDTO {
	return shareLinkDTO{ShareID: v.ShareID, ShareURL: v.ShareURL}
}

func statsToDTO(v playerstats.Record) statsDTO {
	return statsDTO{
		PlayerID: v.PlayerID,
		GameID:   v.GameID,
		Points:   v.Points,
		Assists:  v.Assists,
		Rebounds: v.Rebounds,
		Goals:    v.Goals,
		Extra:    v.Extra,
	}
}

func statsListToDTO(items []playerstats.Record) []statsDTO {
	out := make([]statsDTO, 0, len(items))
	for _, item := range items {
		out = append(out, statsToDTO(item))
	}
	return out
}

func scorersToDTO(items []playerstats.ScorerTotal) []scorerDTO {
	out := make([]scorerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, scorerDTO{PlayerID: item.PlayerID, TotalPoints: item.TotalPoints})
	}
	return out
}

func aggregationToDTO(v playerstats.Aggregation) aggregationDTO {
	return aggregationDTO{
		PlayerID:        v.PlayerID,
		TotalGames:      v.TotalGames,
		TotalPoints:     v.TotalPoints,
		TotalAssists:    v.TotalAssists,
		TotalRebounds:   v.TotalRebounds,
		TotalGoals:      v.TotalGoals,
		AveragePoints:   v.AveragePoints,
		AverageAssists:  v.AverageAssists,
		AverageRebounds: v.AverageRebounds,
		AverageGoals:    v.AverageGoals,
	}
}

func playerAttendanceToDTO(v usecase.PlayerAttendance) playerAttendanceDTO {
	return playerAttendanceDTO{
		Player:         playerToDTO(v.Player),
		Responded:      v.Rate.Responded,
		Available:      v.Rate.Available,
		AttendanceRate: v.Rate.Rate,
	}
}

func participationToDTO(items []attendance.EventParticipation) []eventParticipationDTO {
	out := make([]eventParticipationDTO, 0, len(items))
	for _, item := range items {
		out = append(out, eventParticipationDTO{
			Event:        eventToDTO(item.Event),
			Tally:        tallyToDTO(item.Tally),
			ResponseRate: item.ResponseRate,
		})
	}
	return out
}

func dashboardToDTO(v usecase.Dashboard) dashboardDTO {
	return dashboardDTO{
		Summary: summaryDTO{
			TeamSize:    v.Summary.TeamSize,
			TotalEvents: v.Summary.TotalEvents,
			Games:       v.Summary.Games,
			Practices:   v.Summary.Practices,
		},
		UpcomingEvents: eventsToDTO(v.UpcomingEvents),
		RecentMessages: messagesToDTO(v.RecentMessages),
		TopScorers:     scorersToDTO(v.TopScorers),
	}
}
