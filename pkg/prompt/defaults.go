package prompt

// Built-in templates. Any of these can be overridden by dropping a
// file with the same stem into the prompt directory.
var defaultTemplates = map[string]string{
	MetacognitiveEvaluation: `You are a metacognitive evaluator. Before solving anything, assess how
well each available reasoning strategy fits the problem below.

Available strategies: cot (chain-of-thought), tot (tree-of-thought),
plan_and_solve, self_ask, direct.

Score each strategy from 0 (useless) to 10 (ideal fit). Then select the
best strategy, report your confidence in that selection between 0.0 and
1.0, and name a backup strategy to fall back on if verification of the
first answer fails.

If no strategy scores well enough to trust, set "status" to
"REQUEST_SYNTHESIS" instead of "NORMAL".

Respond ONLY with a JSON object inside a fenced block:

` + "```json" + `
{
  "strategy_scores": {"cot": 0, "tot": 0, "plan_and_solve": 0, "self_ask": 0, "direct": 0},
  "selected_strategy": "...",
  "confidence_score": 0.0,
  "status": "NORMAL",
  "mitigation_strategy": "..."
}
` + "```" + `

--- PROBLEM ---
{{user_query}}
---------------
`,

	StrategyScoring: `Assess how well each reasoning strategy fits the problem below. Score
each from 0 (useless) to 10 (ideal fit).

Available strategies: cot, tot, plan_and_solve, self_ask, direct.

Respond ONLY with a JSON object inside a fenced block:

` + "```json" + `
{"strategy_scores": {"cot": 0, "tot": 0, "plan_and_solve": 0, "self_ask": 0, "direct": 0}}
` + "```" + `

--- PROBLEM ---
{{user_query}}
---------------
`,

	StrategySelection: `You scored the candidate reasoning strategies for the problem below as:

{{strategy_scores_json}}

Select the best strategy, report your confidence in that selection
between 0.0 and 1.0, and name a backup strategy to fall back on if
verification fails. If no strategy is trustworthy, set "status" to
"REQUEST_SYNTHESIS" instead of "NORMAL".

Respond ONLY with a JSON object inside a fenced block:

` + "```json" + `
{
  "selected_strategy": "...",
  "confidence_score": 0.0,
  "status": "NORMAL",
  "mitigation_strategy": "..."
}
` + "```" + `

--- PROBLEM ---
{{user_query}}
---------------
`,

	Verification: `A draft answer to the problem below needs checking. Verify the
reasoning step by step: arithmetic, logic, and whether the answer
actually addresses the question.

Respond ONLY with a JSON object inside a fenced block:

` + "```json" + `
{"checks_passed": true, "issues": "..."}
` + "```" + `

--- PROBLEM ---
{{user_query}}
---------------

--- DRAFT ANSWER ---
{{draft_answer}}
--------------------
`,

	Synthesis: `Solve the problem below. Consider several angles of attack, combine
whatever partial insights they give you, and present a single final
answer with your reasoning.

--- PROBLEM ---
{{user_query}}
---------------
`,

	Execution: `You must solve the following problem using the '{{strategy_name}}' strategy.

--- STRATEGY INSTRUCTIONS ---
{{strategy_instructions}}
-----------------------------

--- PROBLEM ---
{{user_query}}
---------------

Now, solve the problem following the instructions precisely.
`,

	MRPEvaluation: `Consider the reasoning strategies cot, tot, plan_and_solve, self_ask
and direct. Think briefly about which one fits the problem below best,
then commit to one on its own line in exactly this form:

>> FINAL CHOICE: <strategy>

--- PROBLEM ---
{{user_query}}
---------------
`,

	JudgeRubric: `You are grading a routed reasoning system. Judge the generated answer
against the reference, then judge the quality of the routing decision
recorded in the execution log.

Question:
{{question}}

Reference answer:
{{correct_answer}}

Generated answer:
{{generated_answer}}

Execution log:
{{execution_log}}

Respond ONLY with a JSON object inside a fenced block:

` + "```json" + `
{
  "task_success": {"is_correct": false, "is_catastrophic_failure": false, "reasoning": "..."},
  "strategy_quality": {"appropriate_strategy": false, "reasoning": "..."},
  "decision_rationality": {"rational_route": false, "reasoning": "..."}
}
` + "```" + `
`,

	JudgeBaselineRubric: `Judge whether the generated answer is correct against the reference.

Question:
{{question}}

Reference answer:
{{correct_answer}}

Generated answer:
{{generated_answer}}

Respond ONLY with a JSON object inside a fenced block:

` + "```json" + `
{"task_success": {"is_correct": false, "is_catastrophic_failure": false, "reasoning": "..."}}
` + "```" + `
`,
}
