package sqlinline

const QModelConfigInsert = `--sql dcf1c513-b691-441e-8b96-f0d602d33d21
insert into model_configs (id, owner_id, name, provider, model, temperature, max_tokens, is_default)
values ($1, $2, $3, $4, $5, $6, $7, $8);
`

const QModelConfigGetForOwner = `--sql ee7a6172-b40e-462e-bce5-5c4f207f8a25
select id, owner_id, name, provider, model, temperature, max_tokens, is_default,
       created_at, updated_at
from model_configs
where id = $1 and owner_id = $2;
`

const QModelConfigListByOwner = `--sql eb7984d5-7c54-4066-b6d0-2f263a50cac9
select id, owner_id, name, provider, model, temperature, max_tokens, is_default,
       created_at, updated_at
from model_configs
where owner_id = $1
order by created_at desc;
`

const QModelConfigUpdate = `--sql 26e52d8c-a3c4-4a7b-8273-4b71271d208e
update model_configs
set name = $3,
    provider = $4,
    model = $5,
    temperature = $6,
    max_tokens = $7,
    is_default = $8,
    updated_at = now()
where id = $1 and owner_id = $2;
`

const QModelConfigDelete = `--sql e06af72c-6f4c-47c4-940f-2558a15aed2f
delete from model_configs
where id = $1 and owner_id = $2;
`
