package basecamp

import (
	"context"
	"fmt"
)

// GetSchedule fetches a project's schedule tool, discovered from the dock.
func (c *Client) GetSchedule(ctx context.Context, projectID int64) (Item, error) {
	scheduleID, err := c.dockID(ctx, projectID, "schedule")
	if err != nil {
		return nil, err
	}
	var schedule Item
	path := fmt.Sprintf("buckets/%d/schedules/%d.json", projectID, scheduleID)
	if err := c.Get(ctx, path, nil, &schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

// GetScheduleEntries lists a project's schedule entries across all pages.
func (c *Client) GetScheduleEntries(ctx context.Context, projectID int64) ([]Item, error) {
	scheduleID, err := c.dockID(ctx, projectID, "schedule")
	if err != nil {
		return nil, err
	}
	var entries []Item
	path := fmt.Sprintf("buckets/%d/schedules/%d/entries.json", projectID, scheduleID)
	if err := c.FetchAllInto(ctx, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetDailyCheckIns lists the questions of a project's check-in
// questionnaire, discovered from the dock.
func (c *Client) GetDailyCheckIns(ctx context.Context, projectID int64) ([]Item, error) {
	questionnaireID, err := c.QuestionnaireID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var questions []Item
	path := fmt.Sprintf("buckets/%d/questionnaires/%d/questions.json", projectID, questionnaireID)
	if err := c.FetchAllInto(ctx, path, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestionAnswers lists the answers recorded for a check-in question.
func (c *Client) GetQuestionAnswers(ctx context.Context, projectID, questionID int64) ([]Item, error) {
	var answers []Item
	path := fmt.Sprintf("buckets/%d/questions/%d/answers.json", projectID, questionID)
	if err := c.FetchAllInto(ctx, path, nil, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
