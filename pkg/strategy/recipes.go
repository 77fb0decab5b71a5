package strategy

// Built-in instructional recipes, keyed by normalized strategy name.
// A file named <key>.md in the recipe directory overrides the entry.
var defaultRecipes = map[string]string{
	"cot": `Reason step by step. Write out each intermediate step explicitly
before moving to the next. State the final answer on its own last line.`,

	"tot": `Explore multiple reasoning branches. At each step, propose two or
three candidate next steps, evaluate each briefly (sure / maybe / dead
end), and expand only the promising ones. Backtrack from dead ends.
When a branch reaches a complete answer, check it before committing.
State the final answer on its own last line.`,

	"plan_and_solve": `First write a short plan: break the problem into the subtasks
needed to solve it, in order. Then carry out the plan subtask by
subtask, showing the work for each. State the final answer on its own
last line.`,

	"self_ask": `Decompose the problem into follow-up questions. For each, write
"Follow up:" with the question and "Intermediate answer:" with its
answer, until no follow-ups remain. Then write "So the final answer
is:" followed by the answer.`,

	"direct": `Answer the question directly and concisely, without showing
intermediate reasoning. State only the final answer.`,
}
