package extract

// Prompt templates dictate the output contract the normalizer later
// enforces. The formats here ("YYYY-MM-DD", "hh:mm AM/PM") must stay in
// sync with the parsing in extractor.go.

const reminderPrompt = `Extract the time, date, and content for a reminder from the following text:
'%s'
Return the response **only** in JSON format with keys: 'time', 'date', 'content'.
Rules:
1. Time can be in any format (e.g., '12:17', '12:18am', '12:19 AM'). Convert it to 'HH:MM AM/PM' format.
2. Date can be in any format (e.g., '27-12-2024', 'today', 'tomorrow'). Convert it to 'YYYY-MM-DD' format.
3. The current date is %s. Resolve relative dates against it. If the date is not mentioned, assume it is today.
4. Content is the reminder message. If not explicitly mentioned, infer it from the context.
Example output: {"time": "12:19 AM", "date": "2024-12-27", "content": "Eat food"}
Do not include any additional text or explanations. Only return valid JSON.`

const birthdayPrompt = `Extract the name and birthdate from the following text:
'%s'
Rules:
1. The name is the person whose birthday is being mentioned.
2. The birthdate can be in any format (e.g., '20th December', '12/20/2000', 'December 20, 2000', '20-12-2000'). Convert it to 'YYYY-MM-DD' format.
3. If the year is not mentioned, use 0000 as the year. Never guess a year.
4. If the user provides a phrase like 'save the birthday of' or 'remember the birthday of', extract the name and birthdate from that context.
5. If the user provides multiple names or dates, extract the first valid pair.
6. Return the response **only** in JSON format with keys: 'name', 'birthdate'.
Examples:
Input: 'Save the birthday of Aadithya on 20th December'
Output: {"name": "Aadithya", "birthdate": "0000-12-20"}
Input: 'Remember that John's birthday is on 12/20/2000'
Output: {"name": "John", "birthdate": "2000-12-20"}
Input: 'Save the birthday of Alex as 20-12-2000'
Output: {"name": "Alex", "birthdate": "2000-12-20"}
Ensure the response is always valid JSON and does not contain any additional text.`
