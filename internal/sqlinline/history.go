package sqlinline

const QHistoryInsert = `--sql d782b8b5-e774-4329-a368-10e608f315f0
insert into generation_history (id, owner_id, job_id, title, slide_count, result_key)
values ($1, $2, $3, $4, $5, $6);
`

const QHistoryListByOwner = `--sql 37767bed-5fe3-4c15-a4ac-9a51fee25dcc
select id, owner_id, job_id, title, slide_count, result_key, created_at
from generation_history
where owner_id = $1
order by created_at desc
limit $2;
`
