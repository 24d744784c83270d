package meeting

import (
	"github.com/mcdev12/speaktime/go/internal/models"
	"github.com/mcdev12/speaktime/go/internal/timer"
)

func participantView(p models.Participant, st models.TimerState, record models.HistoryRecord) ParticipantView {
	v := ParticipantView{
		ID:           p.ID,
		Name:         p.Name,
		AvatarURL:    p.AvatarURL,
		Status:       models.StatusOf(st),
		Running:      st.Running,
		TotalSeconds: st.TotalSeconds,
		Elapsed:      timer.FormatElapsed(st.TotalSeconds),
	}
	// a stored zero renders the same as no entry
	if secs := record.Seconds(p.Name); secs > 0 {
		v.HasPrevious = true
		v.Previous = timer.FormatElapsed(secs)
	}
	return v
}
