package genai

import "fmt"

const systemPrompt = `You are an expert Learning and Development curriculum designer. ` +
	`You design step-by-step learning paths mixing lessons, quizzes, practical challenges, ` +
	`external resources and videos. You respond with a JSON array only: no markdown, no ` +
	`code fences, no text before or after the JSON.`

const stepSchemaPrompt = `For each step in the path, provide a JSON object with:
1. "title": a concise title for the step (e.g., "Understanding Python Variables").
2. "step_type": ONE of "lesson", "quiz", "challenge", "external_resource", "video".
3. "estimated_duration_minutes": (optional) an integer estimate.
4. "details": an object with content specific to the step_type:
   - "lesson": "markdown_content" (string) with detailed explanatory text in Markdown.
   - "quiz": "quiz_questions" (array of objects with "question_text", "question_type",
     "options", "correct_answer" and "explanation"), 2-3 questions.
   - "challenge": "challenge_description" (string) with a practical task to solve.
   - "external_resource": "external_url" (string) and "resource_summary" (string).
   - "video": "video_url" (string) and "video_summary" (string).

The overall path should have between 3 and 7 main steps with a logical flow.
Output ONLY the JSON array of step objects.`

func userPrompt(currentSkills, desiredGoal string) string {
	return fmt.Sprintf(
		"Generate a learning path for an employee with current skills: %q\nand their desired skills or career goal: %q\n\n%s",
		currentSkills, desiredGoal, stepSchemaPrompt,
	)
}

const continuePrompt = `Your previous output was cut off mid-stream. Continue the JSON array ` +
	`exactly where it stopped, without repeating anything already emitted and without any ` +
	`surrounding text, so that concatenating both outputs yields one valid JSON array.`
