package sqlstore

// Queries are written with `?` placeholders and passed through
// sqlx.DB.Rebind, so the same text serves mysql and postgres.
const (
	selectJoined = `SELECT q.id AS q_id, q.body AS q_body, q.ip_address AS q_ip_address,
	q.hidden AS q_hidden, q.created_at AS q_created_at,
	a.id AS a_id, a.body AS a_body, a.created_at AS a_created_at
FROM questions q LEFT JOIN answers a ON a.question_id = q.id`

	qFindQuestion = selectJoined + ` WHERE q.id = ?`

	qAnswered = selectJoined + ` WHERE a.id IS NOT NULL
ORDER BY a.created_at DESC, a.id DESC LIMIT ? OFFSET ?`

	qCountAnswered = `SELECT COUNT(*) FROM questions q JOIN answers a ON a.question_id = q.id`

	qNotAnswered = selectJoined + ` WHERE a.id IS NULL AND q.hidden = FALSE ORDER BY q.id DESC`

	qNext = selectJoined + ` WHERE a.id IS NOT NULL AND q.id > ? ORDER BY q.id ASC LIMIT 1`
	qPrev = selectJoined + ` WHERE a.id IS NOT NULL AND q.id < ? ORDER BY q.id DESC LIMIT 1`

	// qSearchBase takes one `(q.body LIKE ? OR a.body LIKE ?)` clause per
	// keyword and then qSearchOrder.
	qSearchBase  = selectJoined + ` WHERE a.id IS NOT NULL`
	qSearchTerm  = ` AND (q.body LIKE ? OR a.body LIKE ?)`
	qSearchOrder = ` ORDER BY a.created_at DESC, a.id DESC`

	qInsertQuestion          = `INSERT INTO questions (body, ip_address, hidden) VALUES (?, ?, FALSE)`
	qInsertQuestionReturning = qInsertQuestion + ` RETURNING id`
	qInsertAnswer            = `INSERT INTO answers (question_id, body) VALUES (?, ?)`

	qSetHidden      = `UPDATE questions SET hidden = ? WHERE id = ?`
	qQuestionExists = `SELECT COUNT(*) FROM questions WHERE id = ?`
)
