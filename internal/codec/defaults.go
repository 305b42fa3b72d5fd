package codec

import (
	"strconv"

	"github.com/josephgoksu/QuestWing/models"
)

// Frontmatter field names.
const (
	FieldSchemaVersion   = "schemaVersion"
	FieldQuestID         = "questId"
	FieldQuestName       = "questName"
	FieldQuestType       = "questType"
	FieldCategory        = "category"
	FieldStatus          = "status"
	FieldPriority        = "priority"
	FieldLinkedTaskFile  = "linkedTaskFile"
	FieldAdditionalFiles = "additionalFiles"
	FieldXPPerTask       = "xpPerTask"
	FieldCompletionBonus = "completionBonus"
	FieldVisibleTasks    = "visibleTasks"
	FieldSortOrder       = "sortOrder"
	FieldMilestones      = "milestones"
	FieldTags            = "tags"
	FieldCreatedDate     = "createdDate"
	FieldCompletedDate   = "completedDate"
	FieldTimeline        = "timeline"
)

// Defaults is the decode-with-defaults table. Any optional field that is
// missing or fails to parse falls back to the value listed here. Required
// fields (questId, questName, questType, category) have no default and
// fail validation instead.
var Defaults = map[string]string{
	FieldSchemaVersion:   strconv.Itoa(models.CurrentSchemaVersion),
	FieldStatus:          string(models.StatusAvailable),
	FieldPriority:        string(models.PriorityMedium),
	FieldXPPerTask:       "5",
	FieldCompletionBonus: "30",
	FieldVisibleTasks:    "4",
	FieldSortOrder:       "0",
}

func defaultInt(field string) int {
	n, err := strconv.Atoi(Defaults[field])
	if err != nil {
		return 0
	}
	return n
}

func defaultStatus() models.QuestStatus {
	s, _ := models.ParseStatus(Defaults[FieldStatus])
	return s
}

func defaultPriority() models.QuestPriority {
	p, _ := models.ParsePriority(Defaults[FieldPriority])
	return p
}
