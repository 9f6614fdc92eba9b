package assistant

// Fixed instruction strings. These are the only prompts in the system;
// everything dynamic (language, schedule, date) is interpolated by the
// composer.

const personaInstruction = "You are a helpful assistant. Reply in %s."

const scheduleInstruction = "Here is the user's weekly timetable in markdown format:\n\n%s"

// scheduleEmptySentinel is used instead of the rendered timetable when no
// schedule is stored. It is never an empty string.
const scheduleEmptySentinel = "The timetable is currently empty."

const datetimeInstruction = "Today is %s. Current date/time: %s (24-hour)."

const bootstrapInstruction = "Current date/time: %s"

const classifierInstruction = `You are an intent classifier.

Given a user input, respond with the most appropriate intent from this list:
- save_schedule
- delete_schedule
- check_grammar
- suggest_emoji
- none

Your response must be exactly one item from the list, nothing else. If you're not sure, respond with 'none'.`

const grammarInstruction = "You are a grammar correction assistant. If the text has errors, return the corrected sentence; otherwise return the same text."

const emojiInstruction = "You are an emoji suggester. Respond with one or two emojis only, no other text."
