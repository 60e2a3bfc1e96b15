package dto

// ContentRequest creates or updates an educational content entry.
type ContentRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	ContentType string  `json:"content_type" validate:"required,oneof=article video pdf quiz"`
	Description string  `json:"description" validate:"required"`
	Content     string  `json:"content"`
	VideoURL    *string `json:"video_url,omitempty" validate:"omitempty,url"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// QuizRequest creates or updates a quiz with its question set.
type QuizRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"required"`
	Questions   []QuizQuestionReq `json:"questions" validate:"dive"`
}

// QuizQuestionReq is one question in a quiz payload.
type QuizQuestionReq struct {
	Question      string `json:"question" validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required,max=200"`
	Option1       string `json:"option1" validate:"required,max=200"`
	Option2       string `json:"option2" validate:"required,max=200"`
	Option3       string `json:"option3" validate:"required,max=200"`
	Explanation   string `json:"explanation"`
}

// QuizSubmitRequest maps question ids to submitted answers.
type QuizSubmitRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

// QuizSubmitResult is the scored outcome of a quiz attempt.
type QuizSubmitResult struct {
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
}

// ForumTopicRequest opens a discussion thread.
type ForumTopicRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

// ForumCommentRequest replies to a topic.
type ForumCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// FAQRequest creates or updates a FAQ entry.
type FAQRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Category string `json:"category" validate:"required,max=100"`
}

// ProfileUpdateRequest edits the caller's contact details.
type ProfileUpdateRequest struct {
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,max=15"`
	Address     *string `json:"address,omitempty"`
}

// AdminUserUpdateRequest patches role/active flags on a user.
type AdminUserUpdateRequest struct {
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
	Active *bool   `json:"active,omitempty"`
}
